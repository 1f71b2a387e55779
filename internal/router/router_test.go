package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pet-care-hub/internal/adapters/auth/jwt"
	"pet-care-hub/internal/adapters/storage"
	"pet-care-hub/internal/router"
)

func newServer(t *testing.T, devAuth bool) *httptest.Server {
	t.Helper()
	issuer, err := jwt.NewIssuer(jwt.Options{AccessSecret: "access-secret", RefreshSecret: "refresh-secret"})
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	svcs := router.NewServices(storage.NewMemory(), issuer, time.UTC)
	ts := httptest.NewServer(router.NewRouter(router.Options{
		Services: svcs,
		Verifier: issuer,
		DevAuth:  devAuth,
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_Health(t *testing.T) {
	ts := newServer(t, false)
	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("health: %d %s", st, body)
	}
}

func TestHTTP_ProtectedRoutesNeedAuth(t *testing.T) {
	ts := newServer(t, false)

	st, body := doReq(t, ts.URL, "GET", "/api/pets", "", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", st)
	}
	if len(body) != 0 {
		t.Fatalf("auth errors carry no body, got %s", body)
	}

	st, _ = doReqHeaders(t, ts.URL, "GET", "/api/pets", map[string]string{"Authorization": "Bearer garbage"}, nil)
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 with invalid token, got %d", st)
	}
}

func TestHTTP_AuthFlow(t *testing.T) {
	ts := newServer(t, false)

	st, body := doReq(t, ts.URL, "POST", "/api/auth/signup", "", map[string]any{
		"email": "Ana@Mail.com", "password": "secret", "name": "Ana",
	})
	if st != http.StatusCreated {
		t.Fatalf("signup: %d %s", st, body)
	}

	st, _ = doReq(t, ts.URL, "POST", "/api/auth/signup", "", map[string]any{
		"email": "ana@mail.com", "password": "other", "name": "Ana 2",
	})
	if st != http.StatusConflict {
		t.Fatalf("duplicate signup: expected 409, got %d", st)
	}

	st, _ = doReq(t, ts.URL, "POST", "/api/auth/login", "", map[string]any{"email": "ana@mail.com", "password": "wrong"})
	if st != http.StatusBadRequest {
		t.Fatalf("bad login: expected 400, got %d", st)
	}

	st, body = doReq(t, ts.URL, "POST", "/api/auth/login", "", map[string]any{"email": "ana@mail.com", "password": "secret"})
	if st != http.StatusOK {
		t.Fatalf("login: %d %s", st, body)
	}
	var sess struct {
		UserID       string `json:"userId"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	mustJSON(t, body, &sess)

	bearer := func(tok string) map[string]string { return map[string]string{"Authorization": "Bearer " + tok} }

	// access token abre rutas protegidas
	st, body = doReqHeaders(t, ts.URL, "GET", "/api/users/"+sess.UserID, bearer(sess.AccessToken), nil)
	if st != http.StatusOK {
		t.Fatalf("get self: %d %s", st, body)
	}

	// rotación
	st, body = doReqHeaders(t, ts.URL, "POST", "/api/auth/refresh-token", bearer(sess.RefreshToken), nil)
	if st != http.StatusOK {
		t.Fatalf("refresh: %d %s", st, body)
	}
	old := sess.RefreshToken
	mustJSON(t, body, &sess)

	// reusar el viejo corta todas las sesiones
	st, _ = doReqHeaders(t, ts.URL, "POST", "/api/auth/refresh-token", bearer(old), nil)
	if st != http.StatusForbidden {
		t.Fatalf("reuse: expected 403, got %d", st)
	}
	st, _ = doReqHeaders(t, ts.URL, "POST", "/api/auth/refresh-token", bearer(sess.RefreshToken), nil)
	if st != http.StatusForbidden {
		t.Fatalf("after reuse every session is revoked, got %d", st)
	}

	st, _ = doReqHeaders(t, ts.URL, "POST", "/api/auth/refresh-token", nil, nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("refresh without token: expected 401, got %d", st)
	}
}

func TestHTTP_PetsGroupsAndTasks(t *testing.T) {
	ts := newServer(t, true)

	u1 := signup(t, ts.URL, "u1@x.com", "Menahem")
	u2 := signup(t, ts.URL, "u2@x.com", "Dana")

	// mascota creada por u1
	st, body := doReq(t, ts.URL, "POST", "/api/pets", u1, map[string]any{
		"name": "Milo", "species": "dog", "birthDate": "2020-05-01",
	})
	if st != http.StatusCreated {
		t.Fatalf("create pet: %d %s", st, body)
	}
	var pet struct {
		ID      string `json:"id"`
		Members []struct {
			ID string `json:"id"`
		} `json:"members"`
	}
	mustJSON(t, body, &pet)
	if len(pet.Members) != 1 || pet.Members[0].ID != u1 {
		t.Fatalf("creator should be member: %s", body)
	}

	// validación
	st, _ = doReq(t, ts.URL, "POST", "/api/pets", u1, map[string]any{"species": "cat"})
	if st != http.StatusBadRequest {
		t.Fatalf("pet without name: expected 400, got %d", st)
	}

	// grupo con u2 y la mascota
	st, body = doReq(t, ts.URL, "POST", "/api/groups", u1, map[string]any{
		"name": "Family", "users": []string{u2}, "pets": []string{pet.ID},
	})
	if st != http.StatusCreated {
		t.Fatalf("create group: %d %s", st, body)
	}
	var group struct {
		ID string `json:"id"`
	}
	mustJSON(t, body, &group)

	// u2 ve las tareas de la mascota vía el grupo
	now := time.Now().UTC()
	st, body = doReq(t, ts.URL, "POST", "/api/pets/"+pet.ID+"/tasks", u1, map[string]any{
		"title":       "walk",
		"description": "around the block",
		"dateFrom":    now.Add(time.Minute).Format(time.RFC3339),
		"dateTo":      now.Add(time.Hour).Format(time.RFC3339),
	})
	if st != http.StatusCreated {
		t.Fatalf("add task: %d %s", st, body)
	}

	st, body = doReq(t, ts.URL, "GET", "/api/users/"+u2+"/tasks", u2, nil)
	if st != http.StatusOK {
		t.Fatalf("user tasks: %d %s", st, body)
	}
	var tasks []struct {
		PetID string `json:"petId"`
		Tasks []any  `json:"tasks"`
	}
	mustJSON(t, body, &tasks)
	if len(tasks) != 1 || tasks[0].PetID != pet.ID || len(tasks[0].Tasks) != 1 {
		t.Fatalf("expected one pet with one task via group, got %s", body)
	}

	// tarea con fechas invertidas
	st, _ = doReq(t, ts.URL, "POST", "/api/pets/"+pet.ID+"/tasks", u1, map[string]any{
		"title":    "bad",
		"dateFrom": now.Add(time.Hour).Format(time.RFC3339),
		"dateTo":   now.Format(time.RFC3339),
	})
	if st != http.StatusBadRequest {
		t.Fatalf("inverted dates: expected 400, got %d", st)
	}

	// quitar la mascota del grupo corta ambas direcciones
	st, _ = doReq(t, ts.URL, "DELETE", "/api/groups/"+group.ID+"/pets/"+pet.ID, u1, nil)
	if st != http.StatusNoContent {
		t.Fatalf("remove pet from group: %d", st)
	}
	st, body = doReq(t, ts.URL, "GET", "/api/users/"+u2+"/tasks", u2, nil)
	if st != http.StatusOK {
		t.Fatalf("user tasks: %d", st)
	}
	mustJSON(t, body, &tasks)
	if len(tasks) != 0 {
		t.Fatalf("u2 should no longer see the pet, got %s", body)
	}

	st, body = doReq(t, ts.URL, "GET", "/api/pets/"+pet.ID, u1, nil)
	if st != http.StatusOK {
		t.Fatalf("get pet: %d", st)
	}
	var view struct {
		Groups []any `json:"groups"`
	}
	mustJSON(t, body, &view)
	if len(view.Groups) != 0 {
		t.Fatalf("pet should list no groups, got %s", body)
	}

	// búsqueda
	st, body = doReq(t, ts.URL, "GET", "/api/users/search/men", u1, nil)
	if st != http.StatusOK {
		t.Fatalf("search: %d", st)
	}
	var found []struct {
		ID string `json:"id"`
	}
	mustJSON(t, body, &found)
	if len(found) != 1 || found[0].ID != u1 {
		t.Fatalf("search 'men' should find Menahem, got %s", body)
	}

	// 404
	st, _ = doReq(t, ts.URL, "GET", "/api/pets/does-not-exist", u1, nil)
	if st != http.StatusNotFound {
		t.Fatalf("missing pet: expected 404, got %d", st)
	}
}

func TestHTTP_ClubsBooksReadings(t *testing.T) {
	ts := newServer(t, true)
	u1 := signup(t, ts.URL, "reader@x.com", "Reader")

	st, body := doReq(t, ts.URL, "POST", "/api/clubs", u1, map[string]any{"name": "Sci-fi"})
	if st != http.StatusCreated {
		t.Fatalf("create club: %d %s", st, body)
	}
	var club struct {
		ID string `json:"id"`
	}
	mustJSON(t, body, &club)

	st, body = doReq(t, ts.URL, "POST", "/api/books", u1, map[string]any{
		"clubId": club.ID, "title": "Dune", "author": "Herbert",
		"startDate": "2024-01-01", "endDate": "2024-02-01",
	})
	if st != http.StatusCreated {
		t.Fatalf("create book: %d %s", st, body)
	}
	var book struct {
		ID string `json:"id"`
	}
	mustJSON(t, body, &book)

	st, body = doReq(t, ts.URL, "POST", "/api/books/"+book.ID+"/readings", u1, nil)
	if st != http.StatusCreated {
		t.Fatalf("start reading: %d %s", st, body)
	}
	var reading struct {
		ID string `json:"id"`
	}
	mustJSON(t, body, &reading)

	st, _ = doReq(t, ts.URL, "POST", "/api/books/"+book.ID+"/readings", u1, nil)
	if st != http.StatusConflict {
		t.Fatalf("second reading: expected 409, got %d", st)
	}

	st, body = doReq(t, ts.URL, "POST", "/api/readings/"+reading.ID+"/progress", u1, map[string]any{"percentage": 100})
	if st != http.StatusOK {
		t.Fatalf("progress: %d %s", st, body)
	}
	var rd struct {
		Percentage int        `json:"percentage"`
		EndDate    *time.Time `json:"endDate"`
	}
	mustJSON(t, body, &rd)
	if rd.Percentage != 100 || rd.EndDate == nil {
		t.Fatalf("100%% should close the reading: %s", body)
	}

	// borrar el club borra sus libros
	st, _ = doReq(t, ts.URL, "DELETE", "/api/clubs/"+club.ID, u1, nil)
	if st != http.StatusNoContent {
		t.Fatalf("delete club: %d", st)
	}
	st, _ = doReq(t, ts.URL, "GET", "/api/books/"+book.ID, u1, nil)
	if st != http.StatusNotFound {
		t.Fatalf("book should be gone with its club, got %d", st)
	}
}

func signup(t *testing.T, baseURL, email, name string) string {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", "/api/auth/signup", "", map[string]any{
		"email": email, "password": "pw", "name": name,
	})
	if st != http.StatusCreated {
		t.Fatalf("signup %s: %d %s", email, st, body)
	}
	var out struct {
		ID string `json:"id"`
	}
	mustJSON(t, body, &out)
	return out.ID
}

func doReq(t *testing.T, baseURL, method, path, userID string, body any) (int, []byte) {
	t.Helper()
	var headers map[string]string
	if userID != "" {
		headers = map[string]string{"X-Debug-User-ID": userID}
	}
	return doReqHeaders(t, baseURL, method, path, headers, body)
}

func doReqHeaders(t *testing.T, baseURL, method, path string, headers map[string]string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

func mustJSON(t *testing.T, b []byte, dst any) {
	t.Helper()
	if err := json.Unmarshal(b, dst); err != nil {
		t.Fatalf("unmarshal %s: %v", string(b), err)
	}
}
