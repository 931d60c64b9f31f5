package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerforge/datasynth/internal/streaming"
)

// bulkGenerateRequest is the wire shape for POST /generate/bulk; it
// mirrors streaming.BulkRequest but omits the Config override, which
// is only settable via PUT /config.
type bulkGenerateRequest struct {
	EntryCount        int    `json:"entry_count"`
	IncludeMasterData bool   `json:"include_master_data"`
	InjectAnomalies   bool   `json:"inject_anomalies"`
	OutputFormat      string `json:"output_format"`
}

func (s *Server) handleBulkGenerate(c *gin.Context) {
	var req bulkGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	resp, err := s.svc.BulkGenerate(c.Request.Context(), streaming.BulkRequest{
		EntryCount:        req.EntryCount,
		IncludeMasterData: req.IncludeMasterData,
		InjectAnomalies:   req.InjectAnomalies,
		OutputFormat:      req.OutputFormat,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// controlRequest is the wire shape for POST /stream/:id/control.
type controlRequest struct {
	Action  string `json:"action"` // "pause" | "resume" | "stop" | "trigger_pattern"
	Pattern string `json:"pattern,omitempty"`
}

func parseAction(name string) (streaming.Action, bool) {
	switch name {
	case "pause":
		return streaming.ActionPause, true
	case "resume":
		return streaming.ActionResume, true
	case "stop":
		return streaming.ActionStop, true
	case "trigger_pattern":
		return streaming.ActionTriggerPattern, true
	default:
		return 0, false
	}
}

func (s *Server) handleControl(c *gin.Context) {
	id := c.Param("id")
	var req controlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	action, ok := parseAction(req.Action)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action " + req.Action})
		return
	}
	resp, err := s.svc.Control(id, streaming.ControlCommand{Action: action, Pattern: req.Pattern})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.GetConfig())
}

func (s *Server) handleSetConfig(c *gin.Context) {
	cfg := s.svc.GetConfig()
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	s.svc.SetConfig(cfg)
	c.JSON(http.StatusOK, cfg)
}

func (s *Server) handleServiceMetrics(c *gin.Context) {
	m := s.svc.GetMetrics()
	s.mx.observe(m)
	c.JSON(http.StatusOK, m)
}
