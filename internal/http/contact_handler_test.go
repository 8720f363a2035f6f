package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"contactdesk/internal/domain"
)

func TestContacts_RequireAuth(t *testing.T) {
	r, _ := newTestRouter()

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/contacts"},
		{http.MethodGet, "/api/contacts/c1"},
		{http.MethodPost, "/api/contacts"},
		{http.MethodPatch, "/api/contacts/c1"},
		{http.MethodDelete, "/api/contacts/c1"},
	} {
		rec := doJSON(t, r, route.method, route.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", route.method, route.path, rec.Code)
		}
	}
}

func TestContacts_CreateAndGet(t *testing.T) {
	r, sender := newTestRouter()
	token := login(t, r, sender, "a@b.com")

	rec := doJSON(t, r, http.MethodPost, "/api/contacts", token, gin.H{
		"name":        "Ana Torres",
		"phone":       "600123123",
		"value_cents": 5000,
		"job_type":    "plumber",
		"custom2":     "ref-2",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var created domain.Contact
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.ID == "" || created.Name != "Ana Torres" || created.ValueCents != 5000 || created.Custom2 != "ref-2" {
		t.Fatalf("unexpected created contact: %s", rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodGet, "/api/contacts/"+created.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got domain.Contact
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != created.ID || got.Phone != "600123123" || got.JobType != "plumber" {
		t.Fatalf("round trip lost fields: %s", rec.Body.String())
	}
}

func TestContacts_CreateWithoutName(t *testing.T) {
	r, sender := newTestRouter()
	token := login(t, r, sender, "a@b.com")

	rec := doJSON(t, r, http.MethodPost, "/api/contacts", token, gin.H{"phone": "600"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Error != "name_required" {
		t.Fatalf("expected name_required, got %s", rec.Body.String())
	}
}

func TestContacts_SparseUpdate(t *testing.T) {
	r, sender := newTestRouter()
	token := login(t, r, sender, "a@b.com")

	rec := doJSON(t, r, http.MethodPost, "/api/contacts", token, gin.H{"name": "Ana", "tag": "vip"})
	var created domain.Contact
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	rec = doJSON(t, r, http.MethodPatch, "/api/contacts/"+created.ID, token, gin.H{"phone": "700"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var updated domain.Contact
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if updated.Phone != "700" || updated.Name != "Ana" || updated.Tag != "vip" {
		t.Fatalf("expected sparse merge, got %s", rec.Body.String())
	}

	// PUT comparte la variante sparse.
	rec = doJSON(t, r, http.MethodPut, "/api/contacts/"+created.ID, token, gin.H{"tag": "cold"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPatch, "/api/contacts/"+created.ID, token, gin.H{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty patch, got %d", rec.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Error != "no_fields" {
		t.Fatalf("expected no_fields, got %s", rec.Body.String())
	}
}

func TestContacts_CrossUserIsNotFound(t *testing.T) {
	r, sender := newTestRouter()
	tokenA := login(t, r, sender, "a@b.com")
	tokenB := login(t, r, sender, "c@d.com")

	rec := doJSON(t, r, http.MethodPost, "/api/contacts", tokenA, gin.H{"name": "Ana"})
	var created domain.Contact
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/contacts/"+created.ID, tokenB, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign get, got %d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodPatch, "/api/contacts/"+created.ID, tokenB, gin.H{"phone": "1"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign update, got %d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodDelete, "/api/contacts/"+created.ID, tokenB, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign delete, got %d", rec.Code)
	}

	// El dueño sigue viéndolo.
	rec = doJSON(t, r, http.MethodGet, "/api/contacts/"+created.ID, tokenA, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d", rec.Code)
	}
}

func TestContacts_DeleteThenNotFound(t *testing.T) {
	r, sender := newTestRouter()
	token := login(t, r, sender, "a@b.com")

	rec := doJSON(t, r, http.MethodPost, "/api/contacts", token, gin.H{"name": "Ana"})
	var created domain.Contact
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	rec = doJSON(t, r, http.MethodDelete, "/api/contacts/"+created.ID, token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodDelete, "/api/contacts/"+created.ID, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestContacts_List(t *testing.T) {
	r, sender := newTestRouter()
	token := login(t, r, sender, "a@b.com")

	for _, name := range []string{"Ana", "Luis"} {
		rec := doJSON(t, r, http.MethodPost, "/api/contacts", token, gin.H{"name": name})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %s: expected 201, got %d", name, rec.Code)
		}
	}

	rec := doJSON(t, r, http.MethodGet, "/api/contacts", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var contacts []domain.Contact
	if err := json.Unmarshal(rec.Body.Bytes(), &contacts); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(contacts))
	}
}
