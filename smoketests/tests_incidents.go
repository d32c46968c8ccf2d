package smoketests

import (
	"fmt"

	"github.com/feco/api-smoke-tests/servicedef"
)

// DoIncidents uses the incident compatibility endpoints, which store incidents as tasks of
// category INCIDENT.
func DoIncidents(t *T) error {
	ids, err := t.Shared().RequireStrings(KeyHotelID, KeyStaffID)
	if err != nil {
		return err
	}
	hotelID, staffID := ids[0], ids[1]
	api := t.API()

	r, err := api.Create("create incident", fmt.Sprintf("/api/v1/hotels/%s/incidents", hotelID), servicedef.IncidentParams{
		Room:            "Room 201",
		Type:            "OTHER",
		Priority:        "NORMAL",
		Description:     "Smoke incident",
		AssignedStaffID: staffID,
		ActorRole:       servicedef.ActorHotelManager,
	})
	if err != nil {
		return err
	}
	incidentID, err := r.String("incident", "id")
	if err != nil {
		return err
	}
	if err := r.RequireEqual(servicedef.CategoryIncident, "incident", "category"); err != nil {
		return err
	}

	r, err = api.Get("list incidents", fmt.Sprintf("/api/v1/hotels/%s/incidents", hotelID))
	if err != nil {
		return err
	}
	if err := r.RequireListContains("incidents", "id", incidentID); err != nil {
		return err
	}

	r, err = api.Create("add incident event", fmt.Sprintf("/api/v1/incidents/%s/events", incidentID), servicedef.EventParams{
		Action:    servicedef.ActionNoteAdded,
		Note:      "Smoke incident note",
		ActorRole: servicedef.ActorHotelManager,
	})
	if err != nil {
		return err
	}
	if _, err := r.String("event", "id"); err != nil {
		return err
	}

	r, err = api.Get("get incident", "/api/v1/incidents/"+incidentID)
	if err != nil {
		return err
	}
	if err := r.RequireEqual(incidentID, "incident", "id"); err != nil {
		return err
	}

	r, err = api.Get("list staff incidents", fmt.Sprintf("/api/v1/staff/%s/incidents?hotelId=%s", staffID, hotelID))
	if err != nil {
		return err
	}
	return r.RequireListContains("incidents", "id", incidentID)
}
