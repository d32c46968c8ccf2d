package smoketests

import (
	"fmt"

	"github.com/feco/api-smoke-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// DoHotelStructure creates two hotels and, in the first one, a building with a floor, a batch
// of rooms and a space; then patches the floor, a room and the space.
func DoHotelStructure(t *T) error {
	api := t.API()
	suffix := t.UniqueSuffix()

	r, err := api.Create("create hotel", "/api/v1/hotels", servicedef.NameParams{Name: "SmokeTest Hotel " + suffix})
	if err != nil {
		return err
	}
	hotelID, err := r.String("hotel", "id")
	if err != nil {
		return err
	}
	t.Shared().SetString(KeyHotelID, hotelID)

	r, err = api.Create("create other hotel", "/api/v1/hotels", servicedef.NameParams{Name: "SmokeTest Other Hotel " + suffix})
	if err != nil {
		return err
	}
	otherHotelID, err := r.String("hotel", "id")
	if err != nil {
		return err
	}
	t.Shared().SetString(KeyOtherHotelID, otherHotelID)

	r, err = api.Create("create building", fmt.Sprintf("/api/v1/hotels/%s/buildings", hotelID),
		servicedef.NameParams{Name: "Building A"})
	if err != nil {
		return err
	}
	buildingID, err := r.String("building", "id")
	if err != nil {
		return err
	}

	r, err = api.Create("create floor", fmt.Sprintf("/api/v1/buildings/%s/floors", buildingID),
		servicedef.FloorParams{NameOrNumber: "2"})
	if err != nil {
		return err
	}
	floorID, err := r.String("floor", "id")
	if err != nil {
		return err
	}
	t.Shared().SetString(KeyFloorID, floorID)

	r, err = api.Create("bulk rooms", fmt.Sprintf("/api/v1/floors/%s/rooms/bulk", floorID),
		servicedef.BulkRoomsParams{Start: 201, Count: 10, Surface: servicedef.SurfaceBoth, Sqft: 420})
	if err != nil {
		return err
	}
	if r.Get("createdCount").IsNull() {
		return r.Fail("missing createdCount")
	}

	r, err = api.Create("create space", fmt.Sprintf("/api/v1/floors/%s/spaces", floorID),
		servicedef.SpaceParams{Name: "Main Corridor", Sqft: 1200})
	if err != nil {
		return err
	}
	spaceID, err := r.String("space", "id")
	if err != nil {
		return err
	}
	t.Shared().SetString(KeySpaceID, spaceID)

	r, err = api.Get("list rooms", fmt.Sprintf("/api/v1/floors/%s/rooms", floorID))
	if err != nil {
		return err
	}
	rooms, err := r.Array("rooms")
	if err != nil {
		return err
	}
	if rooms.Count() < 1 {
		return r.Fail("rooms list empty")
	}
	roomID, ok := idString(rooms.GetByIndex(0).GetByKey("id"))
	if !ok {
		return r.Fail("first room has no id")
	}
	t.Shared().SetString(KeyRoomID, roomID)

	if _, err := api.Patch("patch floor", fmt.Sprintf("/api/v1/floors/%s", floorID), servicedef.FloorPatch{
		Notes:     "Smoke notes",
		SortOrder: ldvalue.NewOptionalInt(2),
	}); err != nil {
		return err
	}

	if _, err := api.Patch("patch room", fmt.Sprintf("/api/v1/rooms/%s", roomID), servicedef.RoomPatch{
		CleaningFrequency: ldvalue.NewOptionalInt(183),
		LastCleaned:       t.Now().UnixMilli(),
		Notes:             "Smoke room",
	}); err != nil {
		return err
	}

	_, err = api.Patch("patch space", fmt.Sprintf("/api/v1/spaces/%s", spaceID), servicedef.SpacePatch{
		Type:              "CORRIDOR",
		CleaningFrequency: ldvalue.NewOptionalInt(183),
	})
	return err
}
