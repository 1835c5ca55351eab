package directory_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/switchboard/pkg/directory"
	"github.com/aretw0/switchboard/pkg/domain"
)

// newServer starts a stub directory service answering every command from
// the given fixtures, keyed by path ("specialties", "regions", ...).
func newServer(t *testing.T, fixtures map[string]string) (*httptest.Server, *[]*http.Request) {
	t.Helper()
	var seen []*http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Clone(context.Background()))
		body, ok := fixtures[r.URL.Path[1:]]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestClient_ListCategories(t *testing.T) {
	srv, _ := newServer(t, map[string]string{
		"specialties": `{"status": 0, "specialties": [
			{"id": 1, "title": "Medical Officer", "short_title": "MO"},
			{"id": 2, "title": "Anaesthesiológy"},
			{"id": 3, "title": "Sub Thing", "parent_specialty_id": 1}
		]}`,
	})
	c := directory.NewClient(directory.Config{URL: srv.URL})

	got, err := c.ListCategories(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.DirectoryEntry{
		{ID: "1", Title: "MO"},
		{ID: "2", Title: "Anaesthesiol?gy"},
	}, got, "subcategories are filtered out, short titles preferred, titles cleaned")
}

func TestClient_ListSubcategories(t *testing.T) {
	srv, _ := newServer(t, map[string]string{
		"specialties": `{"status": 0, "specialties": [
			{"id": 1, "title": "Medical Officer"},
			{"id": 10, "title": "Surgery", "parent_specialty_id": 1},
			{"id": 11, "title": "Paediatrics", "parent_specialty_id": 1},
			{"id": 20, "title": "Other", "parent_specialty_id": 2}
		]}`,
	})
	c := directory.NewClient(directory.Config{URL: srv.URL})

	got, err := c.ListSubcategories(context.Background(), "1")
	require.NoError(t, err)

	assert.Equal(t, []domain.DirectoryEntry{
		{ID: "10", Title: "Surgery"},
		{ID: "11", Title: "Paediatrics"},
	}, got)
}

func TestClient_HasSubcategories(t *testing.T) {
	srv, _ := newServer(t, map[string]string{
		"specialties": `{"status": 0, "specialties": [
			{"id": 1, "title": "Medical Officer", "is_query_subspecialties": true},
			{"id": 2, "title": "Nurse"}
		]}`,
	})
	c := directory.NewClient(directory.Config{URL: srv.URL})
	ctx := context.Background()

	has, err := c.HasSubcategories(ctx, "1")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = c.HasSubcategories(ctx, "2")
	require.NoError(t, err)
	assert.False(t, has)

	has, err = c.HasSubcategories(ctx, "999")
	require.NoError(t, err)
	assert.False(t, has, "unknown categories report false")
}

func TestClient_ListRegions_ParamOrderAndAuth(t *testing.T) {
	srv, seen := newServer(t, map[string]string{
		"regions": `{"status": 0, "regions": [{"id": "kigoma-mc", "title": "Kigoma MC"}]}`,
	})
	c := directory.NewClient(directory.Config{
		URL:      srv.URL,
		Username: "api",
		Password: "secret",
	})

	got, err := c.ListRegions(context.Background(), "kig")
	require.NoError(t, err)
	assert.Equal(t, []domain.DirectoryEntry{{ID: "kigoma-mc", Title: "Kigoma MC"}}, got)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, "type=District&title=kig&lang=en", req.URL.RawQuery,
		"query parameters keep insertion order")

	user, pass, ok := req.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "api", user)
	assert.Equal(t, "secret", pass)
}

func TestClient_ListFacilities(t *testing.T) {
	srv, seen := newServer(t, map[string]string{
		"facilities": `{"status": 0, "facilities": [
			{"id": 1, "title": "Health Centre", "region": {"title": "Kigoma"}},
			{"id": 2, "title": "Health Centre", "region": {"title": "Kasulu"}},
			{"id": 3, "title": "Dispensary", "region": {"title": "Kigoma"}}
		]}`,
	})
	c := directory.NewClient(directory.Config{URL: srv.URL})

	got, err := c.ListFacilities(context.Background(), "kigoma-mc", "5", "heal")
	require.NoError(t, err)

	assert.Equal(t, []domain.DirectoryEntry{
		{ID: "1", Title: "Health Centre Kigoma"},
		{ID: "2", Title: "Health Centre Kasulu"},
		{ID: "3", Title: "Dispensary"},
	}, got)

	require.Len(t, *seen, 1)
	assert.Equal(t, "title=heal&lang=en&region=kigoma-mc&type=5", (*seen)[0].URL.RawQuery)
}

func TestClient_ListFacilities_OmitsEmptyFilters(t *testing.T) {
	srv, seen := newServer(t, map[string]string{
		"facilities": `{"status": 0, "facilities": []}`,
	})
	c := directory.NewClient(directory.Config{URL: srv.URL})

	_, err := c.ListFacilities(context.Background(), "", "", "x")
	require.NoError(t, err)

	require.Len(t, *seen, 1)
	assert.Equal(t, "title=x&lang=en", (*seen)[0].URL.RawQuery)
}

func TestClient_SubmitUnknownCategory_Tolerant(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		srv, seen := newServer(t, map[string]string{
			"specialties": `{"status": 0, "id": 77}`,
		})
		c := directory.NewClient(directory.Config{URL: srv.URL})

		id, err := c.SubmitUnknownCategory(context.Background(), "+255700000001", "Herbalist")
		require.NoError(t, err)
		assert.Equal(t, domain.EntryID("77"), id)

		require.Len(t, *seen, 1)
		assert.Equal(t, http.MethodPost, (*seen)[0].Method)
	})

	t.Run("api rejects", func(t *testing.T) {
		srv, _ := newServer(t, map[string]string{
			"specialties": `{"status": 1}`,
		})
		c := directory.NewClient(directory.Config{URL: srv.URL})

		id, err := c.SubmitUnknownCategory(context.Background(), "+255700000001", "Herbalist")
		require.NoError(t, err, "tolerant write never raises")
		assert.Equal(t, domain.EntryID(""), id)
	})

	t.Run("server down", func(t *testing.T) {
		srv, _ := newServer(t, nil) // every path 404s
		c := directory.NewClient(directory.Config{URL: srv.URL})

		id, err := c.SubmitUnknownCategory(context.Background(), "+255700000001", "Herbalist")
		require.NoError(t, err)
		assert.Equal(t, domain.EntryID(""), id)
	})
}

func TestClient_CheckMemberNumber(t *testing.T) {
	t.Run("in group", func(t *testing.T) {
		srv, _ := newServer(t, map[string]string{
			"in_cug": `{"status": 0, "in_cug": "1"}`,
		})
		c := directory.NewClient(directory.Config{URL: srv.URL})

		status, err := c.CheckMemberNumber(context.Background(), "0754000000")
		require.NoError(t, err)
		require.NotNil(t, status)
		assert.True(t, status.InGroup)
	})

	t.Run("not in group", func(t *testing.T) {
		srv, _ := newServer(t, map[string]string{
			"in_cug": `{"status": 0, "in_cug": "0"}`,
		})
		c := directory.NewClient(directory.Config{URL: srv.URL})

		status, err := c.CheckMemberNumber(context.Background(), "0754000000")
		require.NoError(t, err)
		require.NotNil(t, status)
		assert.False(t, status.InGroup)
	})

	t.Run("lookup unavailable", func(t *testing.T) {
		srv, _ := newServer(t, map[string]string{
			"in_cug": `{"status": 3}`,
		})
		c := directory.NewClient(directory.Config{URL: srv.URL})

		status, err := c.CheckMemberNumber(context.Background(), "0754000000")
		require.NoError(t, err)
		assert.Nil(t, status)
	})
}

func TestClient_RegisterIdentity(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, _ = w.Write([]byte(`{"status": 0, "id": 5}`))
	}))
	t.Cleanup(srv.Close)
	c := directory.NewClient(directory.Config{URL: srv.URL})

	err := c.RegisterIdentity(context.Background(), domain.Registration{
		Identity:           "+255700000001",
		Country:            "TZ",
		FullName:           "John Doe",
		FirstName:          "John",
		Surname:            "Doe",
		RegistrationNumber: "MCT-1234",
		Facility:           "42",
		Specialties:        []domain.EntryID{"1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "John Doe", payload["name"])
	assert.Equal(t, "John", payload["firstname"])
	assert.Equal(t, "Doe", payload["surname"])
	assert.Equal(t, "TZ", payload["country"])
	assert.Equal(t, "+255700000001", payload["vodacom_phone"])
	assert.Equal(t, "MCT-1234", payload["mct_registration_number"])
	assert.Equal(t, "en", payload["language"])
}

func TestClient_RegisterIdentity_OptionalFieldsOmitted(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, _ = w.Write([]byte(`{"status": 0}`))
	}))
	t.Cleanup(srv.Close)
	c := directory.NewClient(directory.Config{URL: srv.URL})

	err := c.RegisterIdentity(context.Background(), domain.Registration{
		Identity: "+255700000001",
		Country:  "TZ",
		FullName: "John Doe",
	})
	require.NoError(t, err)

	assert.NotContains(t, payload, "mct_registration_number")
	assert.NotContains(t, payload, "facility")
	assert.Equal(t, []any{}, payload["specialties"], "nil specialties serialize as an empty list")
}

func TestClient_RegisterIdentity_FailureCarriesPayload(t *testing.T) {
	responses := map[string]func(w http.ResponseWriter){
		"http 500": func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"body status nonzero": func(w http.ResponseWriter) {
			_, _ = w.Write([]byte(`{"status": 2}`))
		},
	}
	for name, respond := range responses {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				respond(w)
			}))
			t.Cleanup(srv.Close)
			c := directory.NewClient(directory.Config{URL: srv.URL})

			err := c.RegisterIdentity(context.Background(), domain.Registration{
				Identity: "+255700000001",
				Country:  "TZ",
				FullName: "John Doe",
			})
			require.Error(t, err)

			var apiErr *directory.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Contains(t, err.Error(), "directory API POST to "+srv.URL+"/health-workers failed")
			assert.Contains(t, err.Error(), `"vodacom_phone":"+255700000001"`,
				"the failed request body is dumped for operators")
		})
	}
}

func TestClient_UpdateProfileField(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, _ = w.Write([]byte(`{"status": 0}`))
	}))
	t.Cleanup(srv.Close)
	c := directory.NewClient(directory.Config{URL: srv.URL})

	ok, err := c.UpdateProfileField(context.Background(), "+255700000001", "surname", "Smith")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, "surname", payload["data_field"])
	assert.Equal(t, "Smith", payload["new_value"])
	assert.Equal(t, "+255700000001", payload["msisdn"])
}

func TestClient_UpdateProfileField_ToleratesFailure(t *testing.T) {
	srv, _ := newServer(t, nil)
	c := directory.NewClient(directory.Config{URL: srv.URL})

	ok, err := c.UpdateProfileField(context.Background(), "+255700000001", "surname", "Smith")
	require.NoError(t, err)
	assert.False(t, ok)
}
