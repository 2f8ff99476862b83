package middleware

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"orgaclients/pkg/utils"
)

// CtxBodyTooLarge is set once a BodyLimit reader has hit its cap.
const CtxBodyTooLarge = "body_too_large"

// BodyLimit rejects requests that declare more than n bytes and caps the
// body of the rest, which also covers chunked uploads with no length.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			utils.HandleServiceError(c, utils.ErrFileTooLarge)
			c.Abort()
			return
		}
		c.Request.Body = &cappedBody{
			ReadCloser: http.MaxBytesReader(c.Writer, c.Request.Body, n),
			ctx:        c,
		}
		c.Next()
	}
}

type cappedBody struct {
	io.ReadCloser
	ctx *gin.Context
}

func (b *cappedBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		b.ctx.Set(CtxBodyTooLarge, true)
	}
	return n, err
}

// BodyTooLarge reports whether err, or an earlier read on the request, came
// from the BodyLimit cap.
func BodyTooLarge(c *gin.Context, err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge) || c.GetBool(CtxBodyTooLarge)
}
