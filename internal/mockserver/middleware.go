package mockserver

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/r9s-ai/findologic-api-go/internal/logx"
	"github.com/r9s-ai/findologic-api-go/pkg/definitions"
	"github.com/r9s-ai/findologic-api-go/pkg/requestid"
)

type contextFieldSpec struct {
	ctxKey string
	logKey string
}

var accessLogContextFieldSpecs = []contextFieldSpec{
	{ctxKey: ctxEndpoint, logKey: "endpoint"},
	{ctxKey: ctxFixture, logKey: "fixture"},
}

func requestLogger(l *log.Logger, color bool, requestIDHeaderKey string, formatter *logx.AccessLogFormatter) gin.HandlerFunc {
	requestIDHeaderKey = requestid.ResolveHeaderKey(requestIDHeaderKey)
	if l == nil {
		l = log.New(os.Stdout, "", log.LstdFlags)
	}
	if formatter == nil {
		formatter = defaultFormatter()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		size := c.Writer.Size()
		if size < 0 {
			size = 0
		}
		fields := map[string]any{
			"request_id": c.GetString(requestIDHeaderKey),
			"query":      c.Query(definitions.ParamQuery),
			"shopkey":    c.Query(definitions.ParamShopkey),
			"bytes":      size,
		}
		copyContextFieldsBySpec(c, fields, accessLogContextFieldSpecs)
		l.Println(formatter.Format(logx.AccessEntry{
			Time:     time.Now(),
			Status:   c.Writer.Status(),
			Latency:  latency,
			ClientIP: c.ClientIP(),
			Method:   c.Request.Method,
			Path:     c.Request.URL.Path,
			Fields:   fields,
		}, color))
	}
}

func copyContextFieldsBySpec(c *gin.Context, dst map[string]any, specs []contextFieldSpec) {
	for _, s := range specs {
		if v, ok := c.Get(s.ctxKey); ok {
			dst[s.logKey] = v
		}
	}
}

func defaultFormatter() *logx.AccessLogFormatter {
	format, _ := logx.ResolveAccessLogFormat("", logx.DefaultAccessLogFormat)
	f, err := logx.CompileAccessLogFormat(format)
	if err != nil {
		panic(err)
	}
	return f
}
