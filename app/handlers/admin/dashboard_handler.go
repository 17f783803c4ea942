package admin

import (
	"net/http"

	"github.com/josebdo/Cristal-Event-Planner/app/helpers"
	"github.com/josebdo/Cristal-Event-Planner/app/models/other"
	"github.com/josebdo/Cristal-Event-Planner/app/services"
	"go.uber.org/zap"
)

type DashboardPageData struct {
	other.BasePageData
	Overview *services.Overview
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := &DashboardPageData{BasePageData: h.baseData(r, "Dashboard")}

	overview, err := h.storefront.Overview(r.Context())
	if err != nil {
		zap.S().Errorw("Dashboard: failed to load counters", "error", err)
		helpers.SetMessage(&data.BasePageData, helpers.StatusError, services.UserMessage(err))
	}
	data.Overview = overview

	h.render.HTML(w, http.StatusOK, "admin/dashboard", data)
}
