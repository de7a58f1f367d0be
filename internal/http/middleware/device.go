package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jellyjae/cliftonstrengths/internal/platform/ctxutil"
	"github.com/jellyjae/cliftonstrengths/internal/platform/deviceid"
)

// DeviceID returns the header device id, falling back to fromBody. An
// invalid body value is returned as-is for the service to reject.
func DeviceID(c *gin.Context, fromBody string) string {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd != nil && rd.DeviceID != "" {
		return rd.DeviceID
	}
	id, ok := deviceid.Normalize(fromBody)
	if !ok {
		return id
	}
	if rd == nil {
		rd = &ctxutil.RequestData{}
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), rd))
	}
	rd.DeviceID = id
	return id
}
