// Package servicedef defines the JSON request bodies sent to the FECO API.
//
// Only the fields the smoke tests send are modelled. Responses are inspected as arbitrary JSON
// with ldvalue, since the tests only check status codes and a few fields of each response.
package servicedef

import "gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

const (
	SurfaceBoth   = "BOTH"
	SurfaceCarpet = "CARPET"
	SurfaceTile   = "TILE"

	StatusApproved  = "APPROVED"
	StatusCancelled = "CANCELLED"
	StatusAccepted  = "ACCEPTED"

	RoleHotelAdmin = "HOTEL_ADMIN"

	ActorHotelManager = "hotel_manager"
	ActorHotelStaff   = "hotel_staff"

	ActionNoteAdded = "NOTE_ADDED"

	CategoryTask     = "TASK"
	CategoryIncident = "INCIDENT"
)

type LoginParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type NameParams struct {
	Name string `json:"name"`
}

type FloorParams struct {
	NameOrNumber string `json:"nameOrNumber"`
}

type BulkRoomsParams struct {
	Start   int    `json:"start"`
	Count   int    `json:"count"`
	Surface string `json:"surface"`
	Sqft    int    `json:"sqft"`
}

type SpaceParams struct {
	Name string `json:"name"`
	Sqft int    `json:"sqft"`
}

type FloorPatch struct {
	Notes     string              `json:"notes,omitempty"`
	SortOrder ldvalue.OptionalInt `json:"sortOrder,omitempty"`
}

type RoomPatch struct {
	CleaningFrequency ldvalue.OptionalInt `json:"cleaningFrequency,omitempty"`
	LastCleaned       int64               `json:"lastCleaned,omitempty"`
	Notes             string              `json:"notes,omitempty"`
}

type SpacePatch struct {
	Type              string              `json:"type,omitempty"`
	CleaningFrequency ldvalue.OptionalInt `json:"cleaningFrequency,omitempty"`
}

type StaffParams struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type TaskLocation struct {
	Label string `json:"label"`
}

type TaskParams struct {
	Category        string         `json:"category"`
	Status          string         `json:"status"`
	Type            string         `json:"type"`
	Priority        string         `json:"priority"`
	Description     string         `json:"description"`
	Locations       []TaskLocation `json:"locations"`
	AssignedStaffID string         `json:"assignedStaffId,omitempty"`
	ActorRole       string         `json:"actorRole"`
}

type TaskPatch struct {
	AssignedStaffID string `json:"assignedStaffId,omitempty"`
	Status          string `json:"status,omitempty"`
}

// EventParams is the body for adding an event to a task or an incident.
type EventParams struct {
	Action    string `json:"action"`
	Note      string `json:"note,omitempty"`
	ActorRole string `json:"actorRole"`
}

type IncidentParams struct {
	Room            string `json:"room"`
	Type            string `json:"type"`
	Priority        string `json:"priority"`
	Description     string `json:"description"`
	AssignedStaffID string `json:"assignedStaffId,omitempty"`
	ActorRole       string `json:"actorRole"`
}

type ContractContact struct {
	Name  string   `json:"name"`
	Email string   `json:"email"`
	CC    []string `json:"cc"`
}

// PriceGrid maps a surface type to a price per room.
type PriceGrid map[string]int

type ContractPricing struct {
	BasePrices      PriceGrid `json:"basePrices"`
	PenaltyPrices   PriceGrid `json:"penaltyPrices"`
	ContractPrices  PriceGrid `json:"contractPrices"`
	AdvantagePrices PriceGrid `json:"advantagePrices"`
	SqftPrices      PriceGrid `json:"sqftPrices"`
}

type OtherSurfaces struct {
	CarpetSqft int `json:"carpetSqft"`
	TileSqft   int `json:"tileSqft"`
}

type ContractParams struct {
	HotelID             string          `json:"hotelId,omitempty"`
	HotelName           string          `json:"hotelName"`
	Contact             ContractContact `json:"contact"`
	Pricing             ContractPricing `json:"pricing"`
	RoomsMinPerSession  int             `json:"roomsMinPerSession"`
	RoomsMaxPerSession  int             `json:"roomsMaxPerSession"`
	RoomsPerSession     int             `json:"roomsPerSession"`
	Frequency           string          `json:"frequency"`
	SurfaceType         string          `json:"surfaceType"`
	AppliedTier         string          `json:"appliedTier"`
	AppliedPricePerRoom int             `json:"appliedPricePerRoom"`
	OtherSurfaces       OtherSurfaces   `json:"otherSurfaces"`
	TotalPerSession     int             `json:"totalPerSession"`
	Notes               string          `json:"notes,omitempty"`
	SentAt              string          `json:"sentAt,omitempty"`
}

type AcceptContractParams struct {
	SignedBy string `json:"signedBy"`
}

type ReservationParams struct {
	HotelID              string            `json:"hotelId"`
	RoomIDs              []string          `json:"roomIds"`
	SpaceIDs             []string          `json:"spaceIds"`
	RoomNotes            map[string]string `json:"roomNotes,omitempty"`
	SpaceNotes           map[string]string `json:"spaceNotes,omitempty"`
	SurfaceDefault       string            `json:"surfaceDefault"`
	RoomSurfaceOverrides map[string]string `json:"roomSurfaceOverrides,omitempty"`
	NotesGlobal          string            `json:"notesGlobal,omitempty"`
	NotesOrg             string            `json:"notesOrg,omitempty"`
	DurationMinutes      int               `json:"durationMinutes"`
	ProposedDate         string            `json:"proposedDate"`
	ProposedStart        string            `json:"proposedStart"`
}

// ReservationHotelPatch is the limited patch a hotel can apply through a reservation token.
type ReservationHotelPatch struct {
	StatusHotel string `json:"statusHotel"`
	NotesOrg    string `json:"notesOrg,omitempty"`
}

type ReservationAdminPatch struct {
	StatusAdmin string `json:"statusAdmin"`
}

type CancelParams struct {
	By     string `json:"by"`
	Reason string `json:"reason,omitempty"`
}

// BlockedSlotParams creates a blocked slot, or updates the one with the same LegacyID.
type BlockedSlotParams struct {
	LegacyID string `json:"legacyId"`
	Date     string `json:"date"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Note     string `json:"note,omitempty"`
}

// TechnicianParams creates a technician, or updates the one with the same LegacyID.
type TechnicianParams struct {
	LegacyID string `json:"legacyId"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
}

type SessionParams struct {
	LegacyID     string   `json:"legacyId"`
	HotelID      string   `json:"hotelId"`
	RoomIDs      []string `json:"roomIds"`
	Date         string   `json:"date"`
	Start        string   `json:"start"`
	End          string   `json:"end"`
	TechnicianID string   `json:"technicianId"`
}

type UserParams struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	HotelScopeID string `json:"hotelScopeId,omitempty"`
}
