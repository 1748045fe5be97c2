package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-affect/internal/log"
	"github.com/teslashibe/go-affect/pkg/appraisal"
	"github.com/teslashibe/go-affect/pkg/emotions"
)

// LabelInfo describes one taxonomy label.
type LabelInfo struct {
	Label  emotions.Label  `json:"label"`
	Anchor emotions.Vector `json:"anchor"`

	// Quadrants lists every quadrant whose row contains the label.
	Quadrants []int `json:"quadrants"`
}

func labelInfo(l emotions.Label) LabelInfo {
	anchor, _ := emotions.Anchor(l)
	info := LabelInfo{Label: l, Anchor: anchor}
	for q := 1; q <= 4; q++ {
		row, err := emotions.QuadrantLabels(q)
		if err != nil {
			continue
		}
		for _, rl := range row {
			if rl == l {
				info.Quadrants = append(info.Quadrants, q)
				break
			}
		}
	}
	return info
}

// ReactRequest is the body of POST /api/react.
type ReactRequest struct {
	Event   appraisal.Event `json:"event"`
	Context string          `json:"context"`
}

// handleEmotion returns the agent's current snapshot
func (s *Server) handleEmotion(c *fiber.Ctx) error {
	return c.JSON(s.agent.Snapshot())
}

// handleLabels returns the taxonomy with anchors
func (s *Server) handleLabels(c *fiber.Ctx) error {
	labels := emotions.Labels()
	out := make([]LabelInfo, 0, len(labels))
	for _, l := range labels {
		out = append(out, labelInfo(l))
	}
	return c.JSON(out)
}

// handleLabel returns one label by case-insensitive name
func (s *Server) handleLabel(c *fiber.Ctx) error {
	l, err := emotions.ParseLabel(c.Params("label"))
	if err != nil {
		return errorJSON(c, statusFor(err), err)
	}
	return c.JSON(labelInfo(l))
}

// handleReact appraises an event and retargets the agent's decay
func (s *Server) handleReact(c *fiber.Ctx) error {
	var req ReactRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err)
	}

	ctx, err := appraisal.ParseContext(req.Context)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err)
	}

	r, err := s.agent.React(c.UserContext(), req.Event, ctx)
	if err != nil {
		return errorJSON(c, statusFor(err), err)
	}

	s.addReaction(r)
	return c.JSON(r)
}

// handleStopDecay stops the active decay
func (s *Server) handleStopDecay(c *fiber.Ctx) error {
	if err := s.agent.StopDecay(); err != nil {
		return errorJSON(c, statusFor(err), err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handleReactions returns the in-memory reaction history
func (s *Server) handleReactions(c *fiber.Ctx) error {
	s.reactionsMu.RLock()
	defer s.reactionsMu.RUnlock()
	return c.JSON(s.reactions)
}

// handleJournal returns recent journaled appraisals
func (s *Server) handleJournal(c *fiber.Ctx) error {
	if s.journal == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "journal disabled",
		})
	}

	rows, err := s.journal.Appraisals(c.UserContext(), s.agent.Name(), c.QueryInt("limit", 50))
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(rows)
}

// handleEmotionWS streams a snapshot per decay step, starting with the current one
func (s *Server) handleEmotionWS(c *websocket.Conn) {
	if err := c.WriteJSON(s.agent.Snapshot()); err != nil {
		return
	}
	if err := s.stream.Serve(s.ctx, c); err != nil {
		log.Debug("emotion stream closed", "error", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, appraisal.ErrInvalidContext),
		errors.Is(err, appraisal.ErrInvalidEvent),
		errors.Is(err, appraisal.ErrInvalidPersonality),
		errors.Is(err, emotions.ErrInvalidSteps):
		return fiber.StatusBadRequest
	case errors.Is(err, emotions.ErrUnknownLabel):
		return fiber.StatusNotFound
	case errors.Is(err, emotions.ErrInvalidState):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
