package httpapi

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type persistRequest struct {
	ProfileID int64 `json:"profile_id" binding:"required"`
}

// saveDraft persists the session draft and clears the session. The
// persisted invoice is immutable per draft UID, so further changes
// start a new draft rather than editing a session that can no longer
// be saved.
func (h *Handler) saveDraft(c *gin.Context) {
	var req persistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile_id is required"})
		return
	}

	id := c.Param("id")
	sess, err := h.sessions.Get(id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	inv, err := h.invoiceSvc.Save(req.ProfileID, id, sess.Draft)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.sessions.Clear(id)
	c.JSON(http.StatusOK, inv)
}

// sendDraft runs the save-then-email sequence and clears the session
// once the invoice is sent.
func (h *Handler) sendDraft(c *gin.Context) {
	var req persistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile_id is required"})
		return
	}

	id := c.Param("id")
	sess, err := h.sessions.Get(id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	inv, err := h.invoiceSvc.Send(c.Request.Context(), req.ProfileID, id, sess.Draft)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.sessions.Clear(id)
	c.JSON(http.StatusOK, inv)
}

func (h *Handler) listInvoices(c *gin.Context) {
	profileID, err := strconv.ParseInt(c.Query("profile_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile_id query parameter is required"})
		return
	}

	invoices, err := h.invoices.List(profileID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

func (h *Handler) getInvoice(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	inv, err := h.invoices.GetByID(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// getInvoicePDF serves the stored PDF when the invoice was sent, and
// renders on demand for saved invoices that have not been emailed yet.
func (h *Handler) getInvoicePDF(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice id"})
		return
	}

	inv, err := h.invoices.GetByID(id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if inv.PDFPath != "" {
		if content, err := os.ReadFile(inv.PDFPath); err == nil {
			serveInlinePDF(c, inv.InvoiceNumber, content)
			return
		}
		h.logger.Warn("Stored PDF missing, re-rendering",
			zap.String("path", inv.PDFPath))
	}

	profile, err := h.profiles.GetByID(inv.ProfileID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	content, err := h.renderer.Render(profile, inv)
	if err != nil {
		h.respondError(c, err)
		return
	}
	serveInlinePDF(c, inv.InvoiceNumber, content)
}

func serveInlinePDF(c *gin.Context, invoiceNumber string, content []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=invoice-%s.pdf", invoiceNumber))
	c.Data(http.StatusOK, "application/pdf", content)
}

// exportInvoices streams an XLSX report of every invoice on a profile
func (h *Handler) exportInvoices(c *gin.Context) {
	profileID, err := strconv.ParseInt(c.Query("profile_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile_id query parameter is required"})
		return
	}

	invoices, err := h.invoices.List(profileID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	workbook, err := h.exporter.BuildWorkbook(invoices)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer workbook.Close()

	c.Header("Content-Disposition", "attachment; filename=invoices.xlsx")
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := workbook.Write(c.Writer); err != nil {
		h.logger.Error("Failed to stream workbook", zap.Error(err))
	}
}
