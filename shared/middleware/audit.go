package middleware

import (
	"bytes"
	"context"
	"io"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/farahsharshar/v-banking-system/shared/audit"
)

// bodyCapturingWriter tees the response body so it can be audited after the
// handler has written it.
type bodyCapturingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCapturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// AuditMiddleware publishes every inbound request and outbound response on
// the wrapped routes to the audit stream. Publishing happens off the request
// goroutine and failures are swallowed: the side-channel never affects the
// caller.
func AuditMiddleware(publisher *audit.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint := c.Request.Method + " " + c.FullPath()

		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		writer := &bodyCapturingWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		requestMsg := audit.NewLogMessage(string(requestBody), audit.TypeRequest, endpoint)

		c.Next()

		responseMsg := audit.NewLogMessage(writer.body.String(), audit.TypeResponse, endpoint)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := publisher.Publish(ctx, requestMsg); err != nil {
				log.Printf("Failed to publish request audit record: %v", err)
			}
			if err := publisher.Publish(ctx, responseMsg); err != nil {
				log.Printf("Failed to publish response audit record: %v", err)
			}
		}()
	}
}
