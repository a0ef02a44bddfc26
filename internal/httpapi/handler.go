package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tradiefy/voice-invoicing/internal/ai"
	"github.com/tradiefy/voice-invoicing/internal/clients"
	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"github.com/tradiefy/voice-invoicing/internal/draft"
	"github.com/tradiefy/voice-invoicing/internal/export"
	"github.com/tradiefy/voice-invoicing/internal/invoice"
	"github.com/tradiefy/voice-invoicing/internal/pdf"
	"github.com/tradiefy/voice-invoicing/internal/repository"
	"github.com/tradiefy/voice-invoicing/internal/storage"
	"go.uber.org/zap"
)

// Handler carries the API dependencies
type Handler struct {
	sessions   *draft.Store
	drafter    *ai.Drafter
	reconciler *ai.Reconciler
	resolver   *clients.Resolver
	invoiceSvc *invoice.Service
	renderer   *pdf.Renderer
	exporter   *export.Exporter
	photoStore *storage.PhotoStore
	profiles   *repository.ProfileRepository
	clientRepo *repository.ClientRepository
	materials  *repository.MaterialRepository
	invoices   *repository.InvoiceRepository
	photos     *repository.PhotoRepository
	logger     *zap.Logger
}

// Deps bundles the handler's collaborators
type Deps struct {
	Sessions   *draft.Store
	Drafter    *ai.Drafter
	Reconciler *ai.Reconciler
	Resolver   *clients.Resolver
	InvoiceSvc *invoice.Service
	Renderer   *pdf.Renderer
	Exporter   *export.Exporter
	PhotoStore *storage.PhotoStore
	Profiles   *repository.ProfileRepository
	Clients    *repository.ClientRepository
	Materials  *repository.MaterialRepository
	Invoices   *repository.InvoiceRepository
	Photos     *repository.PhotoRepository
	Logger     *zap.Logger
}

// NewHandler creates the API handler
func NewHandler(deps Deps) *Handler {
	return &Handler{
		sessions:   deps.Sessions,
		drafter:    deps.Drafter,
		reconciler: deps.Reconciler,
		resolver:   deps.Resolver,
		invoiceSvc: deps.InvoiceSvc,
		renderer:   deps.Renderer,
		exporter:   deps.Exporter,
		photoStore: deps.PhotoStore,
		profiles:   deps.Profiles,
		clientRepo: deps.Clients,
		materials:  deps.Materials,
		invoices:   deps.Invoices,
		photos:     deps.Photos,
		logger:     deps.Logger,
	}
}

// Register wires every route onto the router group
func (h *Handler) Register(api *gin.RouterGroup) {
	api.POST("/drafts", h.createDraft)
	api.GET("/drafts/:id", h.getDraft)
	api.DELETE("/drafts/:id", h.abandonDraft)
	api.PATCH("/drafts/:id/customer", h.patchCustomer)
	api.PATCH("/drafts/:id/meta", h.patchMeta)
	api.PATCH("/drafts/:id/notes", h.patchNotes)
	api.PUT("/drafts/:id/items", h.replaceItems)
	api.POST("/drafts/:id/items", h.addItem)
	api.DELETE("/drafts/:id/items/:index", h.removeItem)
	api.POST("/drafts/:id/items/:index/toggle-type", h.toggleItemType)
	api.POST("/drafts/:id/corrections", h.applyCorrection)
	api.POST("/drafts/:id/save", h.saveDraft)
	api.POST("/drafts/:id/send", h.sendDraft)
	api.POST("/drafts/:id/photos", h.uploadPhoto)
	api.GET("/drafts/:id/photos", h.listPhotos)

	api.POST("/profiles", h.createProfile)
	api.GET("/profiles", h.listProfiles)
	api.GET("/profiles/:id", h.getProfile)
	api.PUT("/profiles/:id", h.updateProfile)
	api.DELETE("/profiles/:id", h.deleteProfile)

	api.POST("/clients", h.createClient)
	api.GET("/clients", h.listClients)
	api.GET("/clients/resolve", h.resolveClient)
	api.PUT("/clients/:id", h.updateClient)
	api.DELETE("/clients/:id", h.deleteClient)

	api.POST("/materials", h.createMaterial)
	api.GET("/materials", h.listMaterials)
	api.DELETE("/materials/:id", h.deleteMaterial)

	api.GET("/invoices", h.listInvoices)
	api.GET("/invoices/export", h.exportInvoices)
	api.GET("/invoices/:id", h.getInvoice)
	api.GET("/invoices/:id/pdf", h.getInvoicePDF)
}

// draftView is the API representation of a draft session; totals are
// derived on every read, never stored.
type draftView struct {
	ID                string              `json:"id"`
	Draft             entity.InvoiceDraft `json:"draft"`
	Totals            draft.Totals        `json:"totals"`
	Sendable          bool                `json:"sendable"`
	Dirty             bool                `json:"dirty"`
	CorrectionPending bool                `json:"correction_pending"`
}

func (h *Handler) view(sess *draft.Session) draftView {
	totals := draft.ComputeTotals(
		sess.Draft.LineItems,
		sess.Draft.Meta.GSTEnabled,
		sess.Draft.Meta.PricesIncludeGST,
	)
	return draftView{
		ID:                sess.ID,
		Draft:             sess.Draft,
		Totals:            totals,
		Sendable:          draft.Sendable(sess.Draft),
		Dirty:             sess.Dirty,
		CorrectionPending: sess.CorrectionPending,
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, draft.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found"})
	case errors.Is(err, draft.ErrCorrectionPending):
		c.JSON(http.StatusConflict, gin.H{"error": "a correction is already being applied", "retryable": true})
	case errors.Is(err, ai.ErrSchemaViolation):
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to generate a valid draft, please try again", "retryable": true})
	case errors.Is(err, ai.ErrUpstream):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "drafting service unavailable, please try again", "retryable": true})
	case errors.Is(err, invoice.ErrMissingPrices):
		c.JSON(http.StatusBadRequest, gin.H{"error": "every line item needs a price before sending"})
	case errors.Is(err, invoice.ErrNoRecipients):
		c.JSON(http.StatusBadRequest, gin.H{"error": "add a customer email before sending"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found; create a business profile first if you have none"})
	default:
		h.logger.Error("Unhandled API error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
