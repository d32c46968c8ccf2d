package smoketests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type object = map[string]interface{}

type fakeUser struct {
	id           string
	email        string
	password     string
	role         string
	hotelScopeID string
}

func (u *fakeUser) asObject() object {
	ret := object{"userId": u.id, "email": u.email, "role": u.role, "organizationId": "org_1"}
	if u.hotelScopeID != "" {
		ret["hotelScopeId"] = u.hotelScopeID
	} else {
		ret["hotelScopeId"] = nil
	}
	return ret
}

// fakeBackend is an in-memory stand-in for the FECO API that behaves the way the smoke tests
// expect a healthy deployment to behave. Individual routes can be made to fail.
type fakeBackend struct {
	lock          sync.Mutex
	users         map[string]*fakeUser
	accessTokens  map[string]*fakeUser
	refreshTokens map[string]*fakeUser
	objects       map[string][]object
	files         map[string][]byte

	// failures maps "METHOD /route/template" to a status code returned instead of the real
	// response.
	failures map[string]int

	// imports holds the raw body of every migration import, in order.
	imports []string

	ignoreScope      bool
	keepDeletedFiles bool
}

const (
	fakeAdminEmail    = "admin@example.com"
	fakeAdminPassword = "secret"

	// Exported with every hotel. Neither fits in a float64 without losing digits.
	fakeRevision    = "9007199254740993"
	fakeLedgerTotal = "100000000000000000000000"
)

var fakeWebP = []byte("RIFF\x24\x00\x00\x00WEBPVP8L\x18\x00\x00\x00\x2f\x00\x00\x00\x10\x07\x10\x11\x11\x88\x88\xfe\x07\x00")

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{
		users:         make(map[string]*fakeUser),
		accessTokens:  make(map[string]*fakeUser),
		refreshTokens: make(map[string]*fakeUser),
		objects:       make(map[string][]object),
		files:         make(map[string][]byte),
		failures:      make(map[string]int),
	}
	b.users[fakeAdminEmail] = &fakeUser{id: "user_admin", email: fakeAdminEmail, password: fakeAdminPassword, role: "ADMIN"}
	return b
}

func (b *fakeBackend) failRoute(method, template string, status int) {
	b.failures[method+" "+template] = status
}

func (b *fakeBackend) router() http.Handler {
	r := mux.NewRouter()
	r.Use(b.serialize, b.injectFailures)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, object{"ok": true})
	}).Methods("GET")

	r.HandleFunc("/api/v1/auth/login", b.login).Methods("POST")
	r.HandleFunc("/api/v1/auth/refresh", b.refresh).Methods("POST")
	r.HandleFunc("/api/v1/auth/logout", b.logout).Methods("POST")
	r.HandleFunc("/api/v1/auth/me", b.authed(func(w http.ResponseWriter, _ *http.Request, u *fakeUser) {
		writeJSON(w, http.StatusOK, object{"user": u.asObject()})
	})).Methods("GET")
	r.HandleFunc("/api/v1/users", b.authed(b.createUser)).Methods("POST")

	r.HandleFunc("/api/v1/hotels", b.authed(b.createHotel)).Methods("POST")
	r.HandleFunc("/api/v1/hotels", b.authed(b.listHotels)).Methods("GET")
	r.HandleFunc("/api/v1/hotels/{hotelId}/buildings", b.hotelScoped(b.createChild("building", "hotelId"))).Methods("POST")
	r.HandleFunc("/api/v1/buildings/{buildingId}/floors", b.authed(b.createChild("floor", "buildingId"))).Methods("POST")
	r.HandleFunc("/api/v1/floors/{floorId}/rooms/bulk", b.authed(b.bulkRooms)).Methods("POST")
	r.HandleFunc("/api/v1/floors/{floorId}/rooms", b.authed(b.listChildren("room", "floorId", "rooms"))).Methods("GET")
	r.HandleFunc("/api/v1/floors/{floorId}/spaces", b.authed(b.createChild("space", "floorId"))).Methods("POST")
	r.HandleFunc("/api/v1/floors/{floorId}", b.authed(b.patch("floor", "floorId"))).Methods("PATCH")
	r.HandleFunc("/api/v1/rooms/{roomId}", b.authed(b.patch("room", "roomId"))).Methods("PATCH")
	r.HandleFunc("/api/v1/spaces/{spaceId}", b.authed(b.patch("space", "spaceId"))).Methods("PATCH")

	r.HandleFunc("/api/v1/hotels/{hotelId}/staff", b.hotelScoped(b.createStaff)).Methods("POST")
	r.HandleFunc("/api/v1/hotels/{hotelId}/tasks", b.hotelScoped(b.createTask("TASK", "task"))).Methods("POST")
	r.HandleFunc("/api/v1/hotels/{hotelId}/tasks", b.hotelScoped(b.listTasks("TASK", "hotelId", "tasks"))).Methods("GET")
	r.HandleFunc("/api/v1/tasks/by-legacy/{taskId}", b.authed(b.getTask("task"))).Methods("GET")
	r.HandleFunc("/api/v1/tasks/by-legacy/{taskId}", b.authed(b.patch("task", "taskId"))).Methods("PATCH")
	r.HandleFunc("/api/v1/tasks/by-legacy/{taskId}/events", b.authed(b.addEvent)).Methods("POST")
	r.HandleFunc("/api/v1/tasks/by-legacy/{taskId}/attachments", b.authed(b.uploadAttachment)).Methods("POST")
	r.HandleFunc("/api/v1/tasks/{taskId}/events", b.authed(b.addEvent)).Methods("POST")
	r.HandleFunc("/api/v1/tasks/{taskId}/attachments", b.authed(b.uploadAttachment)).Methods("POST")
	r.HandleFunc("/api/v1/tasks/{taskId}/attachments", b.authed(b.listChildren("attachment", "taskId", "attachments"))).Methods("GET")
	r.HandleFunc("/api/v1/tasks/{taskId}/attachments/{attachmentId}/file", b.authed(b.downloadAttachment)).Methods("GET")
	r.HandleFunc("/api/v1/tasks/{taskId}/attachments/{attachmentId}", b.authed(b.deleteAttachment)).Methods("DELETE")
	r.HandleFunc("/api/v1/staff/{staffId}/tasks", b.authed(b.listTasks("TASK", "staffId", "tasks"))).Methods("GET")

	r.HandleFunc("/api/v1/hotels/{hotelId}/reservations", b.hotelScoped(b.createReservation)).Methods("POST")
	r.HandleFunc("/api/v1/hotels/{hotelId}/reservations", b.hotelScoped(b.listChildren("reservation", "hotelId", "reservations"))).Methods("GET")
	r.HandleFunc("/api/v1/reservations/by-token/{token}", b.reservationByToken).Methods("GET", "PATCH")
	r.HandleFunc("/api/v1/reservations/{reservationId}", b.authed(b.patch("reservation", "reservationId"))).Methods("PATCH")
	r.HandleFunc("/api/v1/reservations/{reservationId}", b.authed(b.deleteByField("reservation", "id", "reservationId"))).Methods("DELETE")
	r.HandleFunc("/api/v1/reservations/{reservationId}/cancel", b.authed(b.cancelReservation)).Methods("POST")

	r.HandleFunc("/api/v1/blocked-slots", b.authed(b.upsert("blockedSlot"))).Methods("POST")
	r.HandleFunc("/api/v1/blocked-slots", b.authed(b.listAll("blockedSlot", "blockedSlots"))).Methods("GET")
	r.HandleFunc("/api/v1/blocked-slots/{legacyId}", b.authed(b.deleteByField("blockedSlot", "legacyId", "legacyId"))).Methods("DELETE")
	r.HandleFunc("/api/v1/technicians", b.authed(b.upsert("technician"))).Methods("POST")
	r.HandleFunc("/api/v1/technicians/{legacyId}", b.authed(b.deleteByField("technician", "legacyId", "legacyId"))).Methods("DELETE")
	r.HandleFunc("/api/v1/hotels/{hotelId}/sessions", b.hotelScoped(b.createChild("session", "hotelId"))).Methods("POST")
	r.HandleFunc("/api/v1/hotels/{hotelId}/sessions", b.hotelScoped(b.listChildren("session", "hotelId", "sessions"))).Methods("GET")
	r.HandleFunc("/api/v1/hotels/{hotelId}/sessions/{legacyId}", b.hotelScoped(b.deleteByField("session", "legacyId", "legacyId"))).Methods("DELETE")
	r.HandleFunc("/api/v1/reports/annual", b.authed(b.annualReport)).Methods("GET")
	r.HandleFunc("/api/v1/reports/roadmap", b.authed(b.roadmapReport)).Methods("GET")

	r.HandleFunc("/api/v1/pricing/defaults", b.authed(func(w http.ResponseWriter, _ *http.Request, _ *fakeUser) {
		writeJSON(w, http.StatusOK, object{"defaults": object{"organizationId": "org_1"}})
	})).Methods("GET")
	r.HandleFunc("/api/v1/hotels/{hotelId}/contracts", b.hotelScoped(b.createContract)).Methods("POST")
	r.HandleFunc("/api/v1/hotels/{hotelId}/contracts", b.hotelScoped(b.listChildren("contract", "hotelId", "contracts"))).Methods("GET")
	r.HandleFunc("/api/v1/contracts/by-token/{token}", b.contractByToken).Methods("GET")
	r.HandleFunc("/api/v1/contracts/by-token/{token}/accept", b.acceptContract).Methods("POST")
	r.HandleFunc("/api/v1/contracts/{contractId}", b.authed(b.deleteByField("contract", "id", "contractId"))).Methods("DELETE")

	r.HandleFunc("/api/v1/hotels/{hotelId}/incidents", b.hotelScoped(b.createTask("INCIDENT", "incident"))).Methods("POST")
	r.HandleFunc("/api/v1/hotels/{hotelId}/incidents", b.hotelScoped(b.listTasks("INCIDENT", "hotelId", "incidents"))).Methods("GET")
	r.HandleFunc("/api/v1/incidents/{taskId}/events", b.authed(b.addEvent)).Methods("POST")
	r.HandleFunc("/api/v1/incidents/{taskId}", b.authed(b.getTask("incident"))).Methods("GET")
	r.HandleFunc("/api/v1/staff/{staffId}/incidents", b.authed(b.listTasks("INCIDENT", "staffId", "incidents"))).Methods("GET")

	r.HandleFunc("/api/v1/migration/localstorage/export", b.authed(b.migrationExport)).Methods("GET")
	r.HandleFunc("/api/v1/migration/localstorage/import", b.authed(b.migrationImport)).Methods("POST")

	return r
}

func (b *fakeBackend) serialize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.lock.Lock()
		defer b.lock.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *fakeBackend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				if status, ok := b.failures[r.Method+" "+tmpl]; ok {
					writeJSON(w, status, object{"error": "injected_failure"})
					return
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func readJSON(r *http.Request) object {
	ret := object{}
	_ = json.NewDecoder(r.Body).Decode(&ret)
	return ret
}

func newID(kind string) string {
	return kind + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

func str(o object, key string) string {
	s, _ := o[key].(string)
	return s
}

func (b *fakeBackend) authed(h func(http.ResponseWriter, *http.Request, *fakeUser)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		u, ok := b.accessTokens[token]
		if !ok {
			writeJSON(w, http.StatusUnauthorized, object{"error": "unauthorized"})
			return
		}
		h(w, r, u)
	}
}

func (b *fakeBackend) inScope(u *fakeUser, hotelID string) bool {
	return b.ignoreScope || u.hotelScopeID == "" || u.hotelScopeID == hotelID
}

func (b *fakeBackend) hotelScoped(h func(http.ResponseWriter, *http.Request, *fakeUser)) http.HandlerFunc {
	return b.authed(func(w http.ResponseWriter, r *http.Request, u *fakeUser) {
		if !b.inScope(u, mux.Vars(r)["hotelId"]) {
			writeJSON(w, http.StatusForbidden, object{"error": "forbidden"})
			return
		}
		h(w, r, u)
	})
}

func (b *fakeBackend) add(kind string, o object) object {
	if _, ok := o["id"]; !ok {
		o["id"] = newID(kind)
	}
	b.objects[kind] = append(b.objects[kind], o)
	return o
}

func (b *fakeBackend) find(kind, field, value string) object {
	for _, o := range b.objects[kind] {
		if str(o, field) == value {
			return o
		}
	}
	return nil
}

func (b *fakeBackend) filter(kind string, match func(object) bool) []object {
	ret := []object{}
	for _, o := range b.objects[kind] {
		if match(o) {
			ret = append(ret, o)
		}
	}
	return ret
}

func (b *fakeBackend) remove(kind, field, value string) bool {
	for i, o := range b.objects[kind] {
		if str(o, field) == value {
			b.objects[kind] = append(b.objects[kind][:i], b.objects[kind][i+1:]...)
			return true
		}
	}
	return false
}

func (b *fakeBackend) issueTokens(w http.ResponseWriter, u *fakeUser) {
	access, refresh := uuid.NewString(), uuid.NewString()
	b.accessTokens[access] = u
	b.refreshTokens[refresh] = u
	http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: refresh, Path: "/api/v1/auth", HttpOnly: true})
	http.SetCookie(w, &http.Cookie{Name: "access_token", Value: access, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, object{"accessToken": access})
}

func (b *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	body := readJSON(r)
	u, ok := b.users[strings.ToLower(str(body, "email"))]
	if !ok || u.password != str(body, "password") {
		writeJSON(w, http.StatusUnauthorized, object{"error": "invalid_credentials"})
		return
	}
	b.issueTokens(w, u)
}

func (b *fakeBackend) refresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie("refresh_token")
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, object{"error": "missing_refresh_token"})
		return
	}
	u, ok := b.refreshTokens[c.Value]
	if !ok {
		writeJSON(w, http.StatusUnauthorized, object{"error": "refresh_token_revoked"})
		return
	}
	delete(b.refreshTokens, c.Value)
	b.issueTokens(w, u)
}

func (b *fakeBackend) logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie("refresh_token"); err == nil {
		delete(b.refreshTokens, c.Value)
	}
	http.SetCookie(w, &http.Cookie{Name: "refresh_token", Path: "/api/v1/auth", MaxAge: -1})
	http.SetCookie(w, &http.Cookie{Name: "access_token", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, object{"ok": true})
}

func (b *fakeBackend) createUser(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
	body := readJSON(r)
	u := &fakeUser{
		id:           newID("user"),
		email:        strings.ToLower(str(body, "email")),
		password:     str(body, "password"),
		role:         str(body, "role"),
		hotelScopeID: str(body, "hotelScopeId"),
	}
	b.users[u.email] = u
	writeJSON(w, http.StatusCreated, object{"user": u.asObject()})
}

func (b *fakeBackend) createHotel(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
	hotel := b.add("hotel", object{"name": str(readJSON(r), "name")})
	writeJSON(w, http.StatusCreated, object{"hotel": hotel})
}

func (b *fakeBackend) listHotels(w http.ResponseWriter, _ *http.Request, u *fakeUser) {
	hotels := b.filter("hotel", func(o object) bool { return b.inScope(u, str(o, "id")) })
	writeJSON(w, http.StatusOK, object{"hotels": hotels})
}

// createChild stores the request body as a new entity linked to its parent by the route
// variable parentKey.
func (b *fakeBackend) createChild(kind, parentKey string) func(http.ResponseWriter, *http.Request, *fakeUser) {
	return func(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
		o := readJSON(r)
		o[parentKey] = mux.Vars(r)[parentKey]
		writeJSON(w, http.StatusCreated, object{kind: b.add(kind, o)})
	}
}

func (b *fakeBackend) listChildren(kind, parentKey, listKey string) func(http.ResponseWriter, *http.Request, *fakeUser) {
	return func(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
		parent := mux.Vars(r)[parentKey]
		writeJSON(w, http.StatusOK, object{listKey: b.filter(kind, func(o object) bool { return str(o, parentKey) == parent })})
	}
}

func (b *fakeBackend) listAll(kind, listKey string) func(http.ResponseWriter, *http.Request, *fakeUser) {
	return func(w http.ResponseWriter, _ *http.Request, _ *fakeUser) {
		writeJSON(w, http.StatusOK, object{listKey: b.filter(kind, func(object) bool { return true })})
	}
}

func (b *fakeBackend) patch(kind, idKey string) func(http.ResponseWriter, *http.Request, *fakeUser) {
	return func(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
		o := b.find(kind, "id", mux.Vars(r)[idKey])
		if o == nil {
			writeJSON(w, http.StatusNotFound, object{"error": kind + "_not_found"})
			return
		}
		for k, v := range readJSON(r) {
			o[k] = v
		}
		writeJSON(w, http.StatusOK, object{kind: o})
	}
}

func (b *fakeBackend) deleteByField(kind, field, varName string) func(http.ResponseWriter, *http.Request, *fakeUser) {
	return func(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
		if !b.remove(kind, field, mux.Vars(r)[varName]) {
			writeJSON(w, http.StatusNotFound, object{"error": kind + "_not_found"})
			return
		}
		writeJSON(w, http.StatusOK, object{"ok": true})
	}
}

// upsert creates an entity, or updates the one with the same legacyId and keeps its id.
func (b *fakeBackend) upsert(kind string) func(http.ResponseWriter, *http.Request, *fakeUser) {
	return func(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
		body := readJSON(r)
		if existing := b.find(kind, "legacyId", str(body, "legacyId")); existing != nil {
			for k, v := range body {
				existing[k] = v
			}
			writeJSON(w, http.StatusOK, object{kind: existing})
			return
		}
		writeJSON(w, http.StatusCreated, object{kind: b.add(kind, body)})
	}
}

func (b *fakeBackend) bulkRooms(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
	body := readJSON(r)
	count, _ := body["count"].(float64)
	start, _ := body["start"].(float64)
	for i := 0; i < int(count); i++ {
		b.add("room", object{"floorId": mux.Vars(r)["floorId"], "number": int(start) + i, "surface": body["surface"]})
	}
	writeJSON(w, http.StatusCreated, object{"createdCount": int(count)})
}

func (b *fakeBackend) createStaff(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
	o := readJSON(r)
	o["hotelId"] = mux.Vars(r)["hotelId"]
	o["token"] = uuid.NewString()
	writeJSON(w, http.StatusCreated, object{"staff": b.add("staff", o)})
}

func (b *fakeBackend) createTask(category, responseKey string) func(http.ResponseWriter, *http.Request, *fakeUser) {
	return func(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
		o := readJSON(r)
		o["hotelId"] = mux.Vars(r)["hotelId"]
		o["category"] = category
		o["staffId"] = o["assignedStaffId"]
		writeJSON(w, http.StatusCreated, object{responseKey: b.add("task", o)})
	}
}

func (b *fakeBackend) listTasks(category, field, listKey string) func(http.ResponseWriter, *http.Request, *fakeUser) {
	return func(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
		value := mux.Vars(r)[field]
		tasks := b.filter("task", func(o object) bool { return str(o, "category") == category && str(o, field) == value })
		writeJSON(w, http.StatusOK, object{listKey: tasks})
	}
}

func (b *fakeBackend) getTask(responseKey string) func(http.ResponseWriter, *http.Request, *fakeUser) {
	return func(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
		task := b.find("task", "id", mux.Vars(r)["taskId"])
		if task == nil {
			writeJSON(w, http.StatusNotFound, object{"error": "task_not_found"})
			return
		}
		writeJSON(w, http.StatusOK, object{responseKey: task})
	}
}

func (b *fakeBackend) addEvent(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
	taskID := mux.Vars(r)["taskId"]
	if b.find("task", "id", taskID) == nil {
		writeJSON(w, http.StatusNotFound, object{"error": "task_not_found"})
		return
	}
	o := readJSON(r)
	o["taskId"] = taskID
	writeJSON(w, http.StatusCreated, object{"event": b.add("event", o)})
}

func (b *fakeBackend) uploadAttachment(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
	task := b.find("task", "id", mux.Vars(r)["taskId"])
	if task == nil {
		writeJSON(w, http.StatusNotFound, object{"error": "task_not_found"})
		return
	}
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, object{"error": "invalid_multipart"})
		return
	}
	_, header, err := r.FormFile("file")
	if err != nil || header.Header.Get("Content-Type") != "image/png" || r.FormValue("actorRole") == "" {
		writeJSON(w, http.StatusBadRequest, object{"error": "missing_file"})
		return
	}
	taskID := str(task, "id")
	id := newID("attachment")
	att := b.add("attachment", object{
		"id":     id,
		"taskId": taskID,
		"kind":   "PHOTO",
		"url":    "/api/v1/tasks/" + taskID + "/attachments/" + id + "/file",
	})
	b.files[id] = fakeWebP
	writeJSON(w, http.StatusCreated, object{"attachment": att})
}

func (b *fakeBackend) downloadAttachment(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
	data, ok := b.files[mux.Vars(r)["attachmentId"]]
	if !ok {
		writeJSON(w, http.StatusNotFound, object{"error": "attachment_not_found"})
		return
	}
	w.Header().Set("Content-Type", "image/webp")
	_, _ = w.Write(data)
}

func (b *fakeBackend) deleteAttachment(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
	id := mux.Vars(r)["attachmentId"]
	if !b.remove("attachment", "id", id) {
		writeJSON(w, http.StatusNotFound, object{"error": "attachment_not_found"})
		return
	}
	if !b.keepDeletedFiles {
		delete(b.files, id)
	}
	writeJSON(w, http.StatusOK, object{"ok": true})
}

func (b *fakeBackend) createReservation(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
	o := readJSON(r)
	o["hotelId"] = mux.Vars(r)["hotelId"]
	o["token"] = uuid.NewString()
	o["statusHotel"] = "PENDING"
	o["statusAdmin"] = "PENDING"
	writeJSON(w, http.StatusCreated, object{"reservation": b.add("reservation", o)})
}

func (b *fakeBackend) reservationByToken(w http.ResponseWriter, r *http.Request) {
	o := b.find("reservation", "token", mux.Vars(r)["token"])
	if o == nil {
		writeJSON(w, http.StatusNotFound, object{"error": "reservation_not_found"})
		return
	}
	if r.Method == "PATCH" {
		body := readJSON(r)
		for _, k := range []string{"statusHotel", "notesOrg"} {
			if v, ok := body[k]; ok {
				o[k] = v
			}
		}
	}
	writeJSON(w, http.StatusOK, object{"reservation": o})
}

func (b *fakeBackend) cancelReservation(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
	o := b.find("reservation", "id", mux.Vars(r)["reservationId"])
	if o == nil {
		writeJSON(w, http.StatusNotFound, object{"error": "reservation_not_found"})
		return
	}
	o["statusHotel"] = "CANCELLED"
	o["statusAdmin"] = "CANCELLED"
	writeJSON(w, http.StatusOK, object{"reservation": o})
}

func (b *fakeBackend) annualReport(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, object{"hotelId": q.Get("hotelId"), "year": q.Get("year"), "months": []object{}})
}

func (b *fakeBackend) roadmapReport(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
	hotelID, date := r.URL.Query().Get("hotelId"), r.URL.Query().Get("date")
	approved := b.filter("reservation", func(o object) bool {
		return str(o, "hotelId") == hotelID && str(o, "proposedDate") == date &&
			str(o, "statusHotel") == "APPROVED" && str(o, "statusAdmin") == "APPROVED"
	})
	writeJSON(w, http.StatusOK, object{"hotelId": hotelID, "date": date, "reservations": approved})
}

func (b *fakeBackend) createContract(w http.ResponseWriter, r *http.Request, _ *fakeUser) {
	o := readJSON(r)
	o["hotelId"] = mux.Vars(r)["hotelId"]
	o["token"] = uuid.NewString()
	o["status"] = "SENT"
	writeJSON(w, http.StatusCreated, object{"contract": b.add("contract", o)})
}

func (b *fakeBackend) contractByToken(w http.ResponseWriter, r *http.Request) {
	o := b.find("contract", "token", mux.Vars(r)["token"])
	if o == nil {
		writeJSON(w, http.StatusNotFound, object{"error": "contract_not_found"})
		return
	}
	writeJSON(w, http.StatusOK, object{"contract": o})
}

func (b *fakeBackend) acceptContract(w http.ResponseWriter, r *http.Request) {
	o := b.find("contract", "token", mux.Vars(r)["token"])
	if o == nil {
		writeJSON(w, http.StatusNotFound, object{"error": "contract_not_found"})
		return
	}
	o["status"] = "ACCEPTED"
	o["signedBy"] = str(readJSON(r), "signedBy")
	writeJSON(w, http.StatusOK, object{"contract": o})
}

func (b *fakeBackend) migrationExport(w http.ResponseWriter, _ *http.Request, u *fakeUser) {
	hotels := object{}
	for _, h := range b.objects["hotel"] {
		if b.inScope(u, str(h, "id")) {
			hotels[str(h, "id")] = object{
				"id":          h["id"],
				"name":        h["name"],
				"revision":    json.Number(fakeRevision),
				"ledgerTotal": json.Number(fakeLedgerTotal),
			}
		}
	}
	writeJSON(w, http.StatusOK, object{"data": object{"version": 1, "hotels": hotels}})
}

func (b *fakeBackend) migrationImport(w http.ResponseWriter, r *http.Request, u *fakeUser) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, object{"error": "invalid_payload"})
		return
	}
	b.imports = append(b.imports, string(raw))
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var body object
	_ = dec.Decode(&body)
	hotels, ok := body["hotels"].(map[string]interface{})
	if version, _ := body["version"].(json.Number); version != "1" || !ok {
		writeJSON(w, http.StatusBadRequest, object{"error": "invalid_payload"})
		return
	}
	for id, v := range hotels {
		if !b.inScope(u, id) {
			writeJSON(w, http.StatusForbidden, object{"error": "forbidden"})
			return
		}
		if h := b.find("hotel", "id", id); h != nil {
			if name := str(v.(map[string]interface{}), "name"); name != "" {
				h["name"] = name
			}
		}
	}
	writeJSON(w, http.StatusOK, object{"ok": true})
}
