package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"github.com/tradiefy/voice-invoicing/internal/draft"
	"go.uber.org/zap"
)

type createDraftRequest struct {
	Text      string `json:"text" binding:"required"`
	ProfileID int64  `json:"profile_id"`
}

// createDraft generates a draft from dictated or typed text. When a
// profile is supplied its default hourly rate seeds unpriced labour,
// and the drafted customer is enriched from stored clients by name.
func (h *Handler) createDraft(c *gin.Context) {
	var req createDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	var hourlyRate float64
	if req.ProfileID != 0 {
		profile, err := h.profiles.GetByID(req.ProfileID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		hourlyRate = profile.DefaultHourlyRate
	}

	d, err := h.drafter.Draft(c.Request.Context(), req.Text, hourlyRate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if req.ProfileID != 0 && d.Customer.Name != entity.DefaultCustomerName {
		if match := h.resolver.Resolve(req.ProfileID, d.Customer.Name); match != nil {
			if len(d.Customer.Emails) == 0 {
				d.Customer.Emails = append([]string(nil), match.Emails...)
			}
			if d.Customer.Address == "" {
				d.Customer.Address = match.Address
			}
			h.logger.Info("Drafted customer enriched from stored client",
				zap.String("name", d.Customer.Name),
				zap.Int64("client_id", match.ID))
		}
	}

	sess := h.sessions.Create(*d)
	c.JSON(http.StatusCreated, h.view(sess))
}

func (h *Handler) getDraft(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(sess))
}

// abandonDraft discards the session; nothing was persisted, so there is
// nothing else to clean up.
func (h *Handler) abandonDraft(c *gin.Context) {
	h.sessions.Clear(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (h *Handler) patchCustomer(c *gin.Context) {
	var patch draft.CustomerPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer patch"})
		return
	}

	sess, err := h.sessions.UpdateCustomer(c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(sess))
}

func (h *Handler) patchMeta(c *gin.Context) {
	var patch draft.MetaPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meta patch"})
		return
	}

	sess, err := h.sessions.UpdateMeta(c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(sess))
}

func (h *Handler) patchNotes(c *gin.Context) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notes payload"})
		return
	}

	sess, err := h.sessions.SetNotes(c.Param("id"), req.Notes)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(sess))
}

func (h *Handler) replaceItems(c *gin.Context) {
	var items []entity.LineItem
	if err := c.ShouldBindJSON(&items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid line items payload"})
		return
	}

	sess, err := h.sessions.ReplaceLineItems(c.Param("id"), items)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(sess))
}

func (h *Handler) addItem(c *gin.Context) {
	sess, err := h.sessions.AddLineItem(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(sess))
}

func (h *Handler) removeItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item index"})
		return
	}

	sess, err := h.sessions.RemoveLineItem(c.Param("id"), index)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(sess))
}

func (h *Handler) toggleItemType(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item index"})
		return
	}

	sess, err := h.sessions.ToggleItemType(c.Param("id"), index)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(sess))
}

type correctionRequest struct {
	CorrectionText string `json:"correction_text" binding:"required"`
}

// applyCorrection runs the correction round trip. The session draft is
// replaced only by a fully valid corrected draft; any failure leaves it
// exactly as it was. A second correction while one is pending gets 409.
func (h *Handler) applyCorrection(c *gin.Context) {
	var req correctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "correction_text is required"})
		return
	}

	id := c.Param("id")
	current, err := h.sessions.BeginCorrection(id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	corrected, err := h.reconciler.Apply(c.Request.Context(), current, req.CorrectionText)
	if err != nil {
		h.sessions.AbortCorrection(id)
		h.respondError(c, err)
		return
	}

	sess, err := h.sessions.CompleteCorrection(id, *corrected)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(sess))
}
