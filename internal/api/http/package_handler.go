package http

import (
	"net/http"

	"classbook-backend/internal/service"
)

type PackageHandler struct {
	packageSvc service.PackageService
}

func NewPackageHandler(packageSvc service.PackageService) *PackageHandler {
	return &PackageHandler{packageSvc: packageSvc}
}

func (h *PackageHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	if region == "" {
		writeError(w, http.StatusBadRequest, "region query parameter is required")
		return
	}

	packages, err := h.packageSvc.ListPackages(r.Context(), region)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, packages)
}

func (h *PackageHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	memberID, ok := memberIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	entries, err := h.packageSvc.ListMemberPackages(r.Context(), memberID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

type purchaseRequest struct {
	PackageID       int32  `json:"package_id"`
	PaymentMethodID string `json:"payment_method_id"`
}

func (h *PackageHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	memberID, ok := memberIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req purchaseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PackageID <= 0 {
		writeError(w, http.StatusBadRequest, "package_id is required")
		return
	}

	entry, err := h.packageSvc.Purchase(r.Context(), memberID, req.PackageID, req.PaymentMethodID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}
