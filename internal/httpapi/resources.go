package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tradiefy/voice-invoicing/internal/domain/entity"
	"github.com/tradiefy/voice-invoicing/pkg/utils"
)

func (h *Handler) createProfile(c *gin.Context) {
	var p entity.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile payload"})
		return
	}
	if strings.TrimSpace(p.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "business name is required"})
		return
	}
	if p.ABN != "" {
		if err := utils.ValidateABN(p.ABN); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if p.BankBSB != "" {
		if err := utils.ValidateBSB(p.BankBSB); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if p.InvoicePrefix == "" {
		p.InvoicePrefix = "INV-"
	}
	if p.NextInvoiceNumber <= 0 {
		p.NextInvoiceNumber = 1
	}

	if err := h.profiles.Create(&p); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) listProfiles(c *gin.Context) {
	profiles, err := h.profiles.List()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

func (h *Handler) getProfile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	p, err := h.profiles.GetByID(id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) updateProfile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	var p entity.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile payload"})
		return
	}
	p.ID = id

	if p.ABN != "" {
		if err := utils.ValidateABN(p.ABN); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.profiles.Update(&p); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deleteProfile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	if err := h.profiles.Delete(id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createClient(c *gin.Context) {
	var cl entity.Client
	if err := c.ShouldBindJSON(&cl); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client payload"})
		return
	}
	if strings.TrimSpace(cl.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client name is required"})
		return
	}
	for _, email := range cl.Emails {
		if err := utils.ValidateEmail(email); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if cl.Emails == nil {
		cl.Emails = []string{}
	}

	if err := h.clientRepo.Create(&cl); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cl)
}

func (h *Handler) listClients(c *gin.Context) {
	profileID, err := strconv.ParseInt(c.Query("profile_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile_id query parameter is required"})
		return
	}

	list, err := h.clientRepo.ListByProfile(profileID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clients": list})
}

// resolveClient runs the fuzzy lookup used to enrich drafted customers.
// No match is a normal 200 with a null client, not an error.
func (h *Handler) resolveClient(c *gin.Context) {
	profileID, err := strconv.ParseInt(c.Query("profile_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile_id query parameter is required"})
		return
	}

	match := h.resolver.Resolve(profileID, c.Query("name"))
	c.JSON(http.StatusOK, gin.H{"client": match})
}

func (h *Handler) updateClient(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}

	var cl entity.Client
	if err := c.ShouldBindJSON(&cl); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client payload"})
		return
	}
	cl.ID = id

	if err := h.clientRepo.Update(&cl); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cl)
}

func (h *Handler) deleteClient(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}

	if err := h.clientRepo.Delete(id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createMaterial(c *gin.Context) {
	var m entity.Material
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid material payload"})
		return
	}
	if strings.TrimSpace(m.Description) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "description is required"})
		return
	}
	if !entity.IsValidUnit(m.Unit) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown unit"})
		return
	}

	if err := h.materials.Create(&m); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) listMaterials(c *gin.Context) {
	profileID, err := strconv.ParseInt(c.Query("profile_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile_id query parameter is required"})
		return
	}

	list, err := h.materials.ListByProfile(profileID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"materials": list})
}

func (h *Handler) deleteMaterial(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid material id"})
		return
	}

	if err := h.materials.Delete(id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// uploadPhoto stores a job photo against the draft session and records
// its stable reference.
func (h *Handler) uploadPhoto(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.sessions.Get(id); err != nil {
		h.respondError(c, err)
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	defer file.Close()

	ref, size, err := h.photoStore.Save(id, header.Filename, file)
	if err != nil {
		h.respondError(c, err)
		return
	}

	photo := entity.Photo{
		DraftUID:     id,
		Ref:          ref,
		OriginalName: header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		SizeBytes:    size,
	}
	if err := h.photos.Create(&photo); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}

func (h *Handler) listPhotos(c *gin.Context) {
	photos, err := h.photos.ListByDraft(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos})
}
