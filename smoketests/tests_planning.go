package smoketests

import (
	"fmt"
	"net/http"

	"github.com/feco/api-smoke-tests/servicedef"
)

// Days between today and the date proposed for test reservations.
const reservationLeadDays = 10

// DoReservationsAndPlanning walks a reservation through its public token and admin approval,
// exercises the legacy-id upserts of blocked slots and technicians, schedules and removes a
// session, and finally checks the reports for a second approved reservation.
func DoReservationsAndPlanning(t *T) error {
	ids, err := t.Shared().RequireStrings(KeyHotelID, KeyRoomID, KeySpaceID)
	if err != nil {
		return err
	}
	hotelID, roomID, spaceID := ids[0], ids[1], ids[2]
	api := t.API()
	proposedDate := t.Now().AddDate(0, 0, reservationLeadDays).Format(dateFormat)
	suffix := t.UniqueSuffix()

	r, err := api.Create("create reservation", fmt.Sprintf("/api/v1/hotels/%s/reservations", hotelID), servicedef.ReservationParams{
		HotelID:              hotelID,
		RoomIDs:              []string{roomID},
		SpaceIDs:             []string{spaceID},
		RoomNotes:            map[string]string{roomID: "Deep clean"},
		SpaceNotes:           map[string]string{spaceID: "High traffic"},
		SurfaceDefault:       servicedef.SurfaceBoth,
		RoomSurfaceOverrides: map[string]string{roomID: servicedef.SurfaceCarpet},
		NotesGlobal:          "Smoke global",
		NotesOrg:             "Smoke hotel",
		DurationMinutes:      180,
		ProposedDate:         proposedDate,
		ProposedStart:        "09:00",
	})
	if err != nil {
		return err
	}
	reservation, err := r.Strings("reservation", "id", "token")
	if err != nil {
		return err
	}
	reservationID, token := reservation[0], reservation[1]

	r, err = api.Call("get reservation by token", "GET", "/api/v1/reservations/by-token/"+token, nil, false)
	if err != nil {
		return err
	}
	if err := r.RequireEqual(reservationID, "reservation", "id"); err != nil {
		return err
	}

	r, err = api.Call("patch reservation by token", "PATCH", "/api/v1/reservations/by-token/"+token,
		servicedef.ReservationHotelPatch{StatusHotel: servicedef.StatusApproved, NotesOrg: "Hotel approved"}, false)
	if err != nil {
		return err
	}
	if err := r.RequireEqual(servicedef.StatusApproved, "reservation", "statusHotel"); err != nil {
		return err
	}

	r, err = api.Patch("admin approve", "/api/v1/reservations/"+reservationID,
		servicedef.ReservationAdminPatch{StatusAdmin: servicedef.StatusApproved})
	if err != nil {
		return err
	}
	if err := r.RequireEqual(servicedef.StatusApproved, "reservation", "statusAdmin"); err != nil {
		return err
	}

	r, err = api.Get("list reservations", fmt.Sprintf("/api/v1/hotels/%s/reservations", hotelID))
	if err != nil {
		return err
	}
	if err := r.RequireListContains("reservations", "id", reservationID); err != nil {
		return err
	}

	if err := checkBlockedSlots(api, "block_smoke_"+suffix, proposedDate); err != nil {
		return err
	}
	if err := checkTechnicianSessions(api, hotelID, roomID, suffix, proposedDate); err != nil {
		return err
	}

	r, err = api.Call("cancel reservation", "POST", fmt.Sprintf("/api/v1/reservations/%s/cancel", reservationID),
		servicedef.CancelParams{By: "admin", Reason: "Smoke cancel"}, true)
	if err != nil {
		return err
	}
	if err := r.RequireEqual(servicedef.StatusCancelled, "reservation", "statusAdmin"); err != nil {
		return err
	}
	if err := r.RequireEqual(servicedef.StatusCancelled, "reservation", "statusHotel"); err != nil {
		return err
	}

	if err := api.Delete("delete reservation", "/api/v1/reservations/"+reservationID); err != nil {
		return err
	}

	return checkReports(api, hotelID, roomID, spaceID, proposedDate)
}

// Creating a blocked slot twice with the same legacy id must update it in place.
func checkBlockedSlots(api *API, legacyID, date string) error {
	r, err := api.Create("create blocked slot", "/api/v1/blocked-slots", servicedef.BlockedSlotParams{
		LegacyID: legacyID, Date: date, Start: "08:00", End: "12:00", Note: "Smoke block",
	})
	if err != nil {
		return err
	}
	slotID, err := r.String("blockedSlot", "id")
	if err != nil {
		return err
	}

	r, err = api.Call("upsert blocked slot", "POST", "/api/v1/blocked-slots", servicedef.BlockedSlotParams{
		LegacyID: legacyID, Date: date, Start: "08:30", End: "12:30", Note: "Smoke block (updated)",
	}, true, http.StatusOK)
	if err != nil {
		return err
	}
	if err := r.RequireEqual(slotID, "blockedSlot", "id"); err != nil {
		return err
	}

	r, err = api.Get("list blocked slots", "/api/v1/blocked-slots")
	if err != nil {
		return err
	}
	if err := r.RequireListContains("blockedSlots", "id", slotID); err != nil {
		return err
	}

	return api.Delete("delete blocked slot", "/api/v1/blocked-slots/"+legacyID)
}

func checkTechnicianSessions(api *API, hotelID, roomID, suffix, date string) error {
	techLegacyID := "tech_smoke_" + suffix
	r, err := api.Create("create technician", "/api/v1/technicians", servicedef.TechnicianParams{
		LegacyID: techLegacyID, Name: "Smoke Tech", Phone: "+1 555-0100",
	})
	if err != nil {
		return err
	}
	techID, err := r.String("technician", "id")
	if err != nil {
		return err
	}

	r, err = api.Call("upsert technician", "POST", "/api/v1/technicians", servicedef.TechnicianParams{
		LegacyID: techLegacyID, Name: "Smoke Tech Updated", Phone: "+1 555-0100",
	}, true, http.StatusOK)
	if err != nil {
		return err
	}
	if err := r.RequireEqual(techID, "technician", "id"); err != nil {
		return err
	}

	sessionLegacyID := "session_smoke_" + suffix
	r, err = api.Create("create session", fmt.Sprintf("/api/v1/hotels/%s/sessions", hotelID), servicedef.SessionParams{
		LegacyID:     sessionLegacyID,
		HotelID:      hotelID,
		RoomIDs:      []string{roomID},
		Date:         date,
		Start:        "13:00",
		End:          "16:00",
		TechnicianID: techID,
	})
	if err != nil {
		return err
	}
	sessionID, err := r.String("session", "id")
	if err != nil {
		return err
	}

	r, err = api.Get("list sessions", fmt.Sprintf("/api/v1/hotels/%s/sessions", hotelID))
	if err != nil {
		return err
	}
	if err := r.RequireListContains("sessions", "id", sessionID); err != nil {
		return err
	}

	if err := api.Delete("delete session", fmt.Sprintf("/api/v1/hotels/%s/sessions/%s", hotelID, sessionLegacyID)); err != nil {
		return err
	}
	return api.Delete("delete technician", "/api/v1/technicians/"+techLegacyID)
}

// The first reservation is gone by now, so a second one is approved by both sides for the
// roadmap to list.
func checkReports(api *API, hotelID, roomID, spaceID, date string) error {
	r, err := api.Create("create reservation (roadmap)", fmt.Sprintf("/api/v1/hotels/%s/reservations", hotelID),
		servicedef.ReservationParams{
			HotelID:              hotelID,
			RoomIDs:              []string{roomID},
			SpaceIDs:             []string{spaceID},
			SurfaceDefault:       servicedef.SurfaceBoth,
			RoomSurfaceOverrides: map[string]string{roomID: servicedef.SurfaceCarpet},
			NotesGlobal:          "Roadmap global",
			NotesOrg:             "Roadmap org",
			DurationMinutes:      120,
			ProposedDate:         date,
			ProposedStart:        "10:30",
		})
	if err != nil {
		return err
	}
	reservation, err := r.Strings("reservation", "id", "token")
	if err != nil {
		return err
	}
	reservationID, token := reservation[0], reservation[1]

	if _, err := api.Call("hotel approve (roadmap)", "PATCH", "/api/v1/reservations/by-token/"+token,
		servicedef.ReservationHotelPatch{StatusHotel: servicedef.StatusApproved}, false); err != nil {
		return err
	}
	if _, err := api.Patch("admin approve (roadmap)", "/api/v1/reservations/"+reservationID,
		servicedef.ReservationAdminPatch{StatusAdmin: servicedef.StatusApproved}); err != nil {
		return err
	}

	year := date[:4]
	r, err = api.Get("annual report", fmt.Sprintf("/api/v1/reports/annual?hotelId=%s&year=%s", hotelID, year))
	if err != nil {
		return err
	}
	if err := r.RequireEqual(hotelID, "hotelId"); err != nil {
		return err
	}

	r, err = api.Get("roadmap report", fmt.Sprintf("/api/v1/reports/roadmap?hotelId=%s&date=%s", hotelID, date))
	if err != nil {
		return err
	}
	if err := r.RequireEqual(hotelID, "hotelId"); err != nil {
		return err
	}
	if err := r.RequireEqual(date, "date"); err != nil {
		return err
	}
	items, err := r.Array("reservations")
	if err != nil {
		return err
	}
	if items.Count() < 1 {
		return r.Fail("roadmap reservations empty")
	}
	return nil
}
