package smoketests

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/feco/api-smoke-tests/client"
	"github.com/feco/api-smoke-tests/framework"
	"github.com/feco/api-smoke-tests/servicedef"
)

const minDownloadSize = 10

// A 1x1 transparent PNG.
var smokePNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01" +
	"\x08\x06\x00\x00\x00\x1f\x15\xc4\x89\x00\x00\x00\nIDATx\x9cc`\x00\x00\x00\x02" +
	"\x00\x01\xe2!\xbc3\x00\x00\x00\x00IEND\xaeB`\x82")

// DoStaffAndTaskWorkflow creates a staff member and a task assigned to them, then exercises the
// task through both its id and the by-legacy alias, which accepts either a legacy id or an id.
func DoStaffAndTaskWorkflow(t *T) error {
	hotelID, err := t.Shared().RequireString(KeyHotelID)
	if err != nil {
		return err
	}
	api := t.API()

	r, err := api.Create("create staff", fmt.Sprintf("/api/v1/hotels/%s/staff", hotelID), servicedef.StaffParams{
		FirstName: "Maria",
		LastName:  "Lopez",
		Phone:     "+1 305-555-0111",
		Notes:     "Smoke",
	})
	if err != nil {
		return err
	}
	staff, err := r.Strings("staff", "id", "token")
	if err != nil {
		return err
	}
	staffID := staff[0]
	t.Shared().SetString(KeyStaffID, staffID)

	r, err = api.Create("create task", fmt.Sprintf("/api/v1/hotels/%s/tasks", hotelID), servicedef.TaskParams{
		Category:        servicedef.CategoryTask,
		Status:          "OPEN",
		Type:            "OTHER",
		Priority:        "NORMAL",
		Description:     "Smoke test task",
		Locations:       []servicedef.TaskLocation{{Label: "Room 201"}},
		AssignedStaffID: staffID,
		ActorRole:       servicedef.ActorHotelManager,
	})
	if err != nil {
		return err
	}
	taskID, err := r.String("task", "id")
	if err != nil {
		return err
	}
	t.Shared().SetString(KeyTaskID, taskID)

	r, err = api.Create("add task event", fmt.Sprintf("/api/v1/tasks/%s/events", taskID), servicedef.EventParams{
		Action:    servicedef.ActionNoteAdded,
		Note:      "Smoke test note",
		ActorRole: servicedef.ActorHotelManager,
	})
	if err != nil {
		return err
	}
	if _, err := r.String("event", "id"); err != nil {
		return err
	}

	r, err = api.Get("get task (by-legacy)", fmt.Sprintf("/api/v1/tasks/by-legacy/%s", taskID))
	if err != nil {
		return err
	}
	if err := r.RequireEqual(taskID, "task", "id"); err != nil {
		return err
	}

	if _, err := api.Patch("patch task (by-legacy)", fmt.Sprintf("/api/v1/tasks/by-legacy/%s", taskID), servicedef.TaskPatch{
		AssignedStaffID: staffID,
		Status:          "IN_PROGRESS",
	}); err != nil {
		return err
	}

	if _, err := api.Create("add task event (by-legacy)", fmt.Sprintf("/api/v1/tasks/by-legacy/%s/events", taskID),
		servicedef.EventParams{
			Action:    servicedef.ActionNoteAdded,
			Note:      "Smoke test note (legacy)",
			ActorRole: servicedef.ActorHotelManager,
		}); err != nil {
		return err
	}

	r, err = api.Get("list tasks", fmt.Sprintf("/api/v1/hotels/%s/tasks", hotelID))
	if err != nil {
		return err
	}
	if err := r.RequireListContains("tasks", "id", taskID); err != nil {
		return err
	}

	r, err = api.Get("list staff tasks", fmt.Sprintf("/api/v1/staff/%s/tasks?hotelId=%s", staffID, hotelID))
	if err != nil {
		return err
	}
	return r.RequireListContains("tasks", "id", taskID)
}

// DoTaskAttachments uploads a photo to the task, downloads the stored file, which the backend
// converts to WebP, and deletes it again.
func DoTaskAttachments(t *T) error {
	taskID, err := t.Shared().RequireString(KeyTaskID)
	if err != nil {
		return err
	}
	api := t.API()

	fields := []client.FormField{{Name: "actorRole", Value: servicedef.ActorHotelStaff}}
	files := []client.FormFile{{FieldName: "file", Filename: "smoke.png", ContentType: "image/png", Data: smokePNG}}

	r, err := api.Upload("upload attachment", fmt.Sprintf("/api/v1/tasks/%s/attachments", taskID), fields, files)
	if err != nil {
		return err
	}
	attachment, err := r.Strings("attachment", "id", "url")
	if err != nil {
		return err
	}
	attachmentID, url := attachment[0], attachment[1]

	if _, err := api.Upload("upload attachment (by-legacy)", fmt.Sprintf("/api/v1/tasks/by-legacy/%s/attachments", taskID),
		fields, files); err != nil {
		return err
	}

	resp, err := api.Raw("download attachment", "GET", url, nil, "", true)
	if err != nil {
		return err
	}
	if resp.Status != http.StatusOK {
		return downloadError("download attachment", resp, "expected status 200")
	}
	if !strings.Contains(resp.ContentType(), "image/webp") {
		return downloadError("download attachment", resp, fmt.Sprintf("unexpected content-type %q", resp.ContentType()))
	}
	if len(resp.Body) < minDownloadSize {
		return downloadError("download attachment", resp, fmt.Sprintf("downloaded file too small (%d bytes)", len(resp.Body)))
	}

	r, err = api.Get("list attachments", fmt.Sprintf("/api/v1/tasks/%s/attachments", taskID))
	if err != nil {
		return err
	}
	if err := r.RequireListContains("attachments", "url", url); err != nil {
		return err
	}

	if err := api.Delete("delete attachment", fmt.Sprintf("/api/v1/tasks/%s/attachments/%s", taskID, attachmentID)); err != nil {
		return err
	}

	resp, err = api.Raw("download deleted attachment", "GET", url, nil, "", true)
	if err != nil {
		return err
	}
	if resp.Status != http.StatusNotFound {
		return downloadError("download deleted attachment", resp, "expected status 404")
	}
	return nil
}

func downloadError(op string, resp client.Response, detail string) error {
	body := framework.Snippet(resp.Body)
	if ct := resp.ContentType(); ct != "" && !strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "json") {
		body = fmt.Sprintf("<%d bytes of %s>", len(resp.Body), ct)
	}
	return &framework.ProtocolError{Operation: op, Status: resp.Status, Detail: detail, Body: body}
}
