package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Envelope result markers, reproduced verbatim for client compatibility.
const (
	ResultOK    = "ok"
	ResultFail  = "fail"
	ResultError = "error"
)

// StatusInvalidParameters is the historical status code for malformed input.
const StatusInvalidParameters = 405

// respond writes the uniform response envelope without a payload.
func respond(c *gin.Context, code int, result, message string) {
	body := gin.H{"result": result}
	if message != "" {
		body["message"] = message
	}
	c.JSON(code, body)
}

// respondWith writes the envelope carrying a named payload.
func respondWith(c *gin.Context, code int, name string, obj any) {
	c.JSON(code, gin.H{"result": ResultOK, name: obj})
}

// parseID extracts a uuid path or body reference, failing the request with
// the invalid-parameters envelope when malformed.
func parseID(c *gin.Context, raw, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		respond(c, StatusInvalidParameters, ResultFail, "invalid parameter("+name+")")
		return uuid.Nil, false
	}
	return id, true
}

// parseIDs converts a reference list, failing the request on the first
// malformed entry.
func parseIDs(c *gin.Context, raw []string, name string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			respond(c, StatusInvalidParameters, ResultFail, "invalid parameter("+name+")")
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
