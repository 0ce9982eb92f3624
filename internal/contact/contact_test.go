package contact

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in     string
		want   Category
		wantOK bool
	}{
		{"", CategoryNone, true},
		{"  ", CategoryNone, true},
		{"Work", CategoryWork, true},
		{"work", CategoryWork, true},
		{" FRIENDS ", CategoryFriends, true},
		{"Colleagues", CategoryNone, false},
	}
	for _, tt := range tests {
		got, ok := ParseCategory(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseCategory(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCategory_NextCyclesThroughUnset(t *testing.T) {
	// Given: the unset category
	c := CategoryNone

	// When: Next is applied once per category plus one
	var seen []Category
	for i := 0; i < len(Categories())+1; i++ {
		c = c.Next()
		seen = append(seen, c)
	}

	// Then: every category is visited in order and the cycle returns to unset
	want := append(Categories(), CategoryNone)
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("Next() cycle mismatch (-want +got):\n%s", diff)
	}
}

func TestCategory_PrevIsInverseOfNext(t *testing.T) {
	for _, c := range append(Categories(), CategoryNone) {
		if got := c.Next().Prev(); got != c {
			t.Errorf("%q.Next().Prev() = %q", c, got)
		}
	}
}

func TestCategory_UnknownRestartsCycle(t *testing.T) {
	if got := Category("Colleagues").Next(); got != CategoryNone {
		t.Errorf("unknown.Next() = %q, want unset", got)
	}
	if Category("Colleagues").Valid() {
		t.Error("unknown category should not be valid")
	}
}

func TestContact_DisplayHelpers(t *testing.T) {
	c := Contact{ID: 1, FirstName: "Ann", LastName: "Lee", Email: "ann@x.com"}

	if got := c.DisplayName(); got != "Ann Lee" {
		t.Errorf("DisplayName() = %q, want %q", got, "Ann Lee")
	}
	if c.HasPhone() {
		t.Error("HasPhone() = true for empty phone")
	}
	if c.HasCategory() {
		t.Error("HasCategory() = true for unset category")
	}
	if !c.Persisted() {
		t.Error("Persisted() = false for contact with ID")
	}
	if (Contact{}).Persisted() {
		t.Error("Persisted() = true for zero contact")
	}
}

func TestContact_DecodesBackendShape(t *testing.T) {
	// Given: a backend contact with null phone and category
	body := `{"id": 7, "firstName": "Bo", "lastName": "Ng", "email": "bo@x.com",
		"phone": null, "category": null, "createdAt": "2024-05-01T10:00:00.123456", "updatedAt": null}`

	// When: it is decoded
	var c Contact
	if err := json.Unmarshal([]byte(body), &c); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	// Then: nulls decode to empty values
	want := Contact{ID: 7, FirstName: "Bo", LastName: "Ng", Email: "bo@x.com", CreatedAt: "2024-05-01T10:00:00.123456"}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("decoded contact mismatch (-want +got):\n%s", diff)
	}
}

func TestDraft_MarshalsExactlyFiveKeys(t *testing.T) {
	// Given: a draft with empty optional fields
	d := Draft{FirstName: "Bo", LastName: "Ng", Email: "bo@x.com"}

	// When: it is marshaled
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}

	// Then: all five keys are present, empty ones included
	want := map[string]any{
		"firstName": "Bo",
		"lastName":  "Ng",
		"email":     "bo@x.com",
		"phone":     "",
		"category":  "",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestDraftFrom_CopiesEditableFields(t *testing.T) {
	c := Contact{ID: 3, FirstName: "Ann", LastName: "Lee", Email: "ann@x.com", Phone: "555", Category: CategoryWork, CreatedAt: "x"}

	d := DraftFrom(c)
	d.Set(FieldEmail, "changed@x.com")

	want := Draft{FirstName: "Ann", LastName: "Lee", Email: "changed@x.com", Phone: "555", Category: CategoryWork}
	if diff := cmp.Diff(want, d); diff != "" {
		t.Errorf("draft mismatch (-want +got):\n%s", diff)
	}
	if c.Email != "ann@x.com" {
		t.Errorf("editing the draft changed the source contact: %q", c.Email)
	}
}

func TestDraft_GetSetRoundTripPerField(t *testing.T) {
	var d Draft
	for _, f := range Fields {
		d.Set(f, "v-"+f.String())
	}
	for _, f := range Fields {
		if got := d.Get(f); got != "v-"+f.String() {
			t.Errorf("Get(%s) = %q", f, got)
		}
	}
}

func TestDraft_Validate(t *testing.T) {
	tests := []struct {
		name       string
		draft      Draft
		wantFields []Field
	}{
		{
			name:  "valid minimal",
			draft: Draft{FirstName: "Bo", LastName: "Ng", Email: "bo@x.com"},
		},
		{
			name:  "valid full",
			draft: Draft{FirstName: "Bo", LastName: "Ng", Email: "bo.ng+tag@mail.example.org", Phone: "555-0100", Category: CategoryFriends},
		},
		{
			name:       "all required missing",
			draft:      Draft{},
			wantFields: []Field{FieldFirstName, FieldLastName, FieldEmail},
		},
		{
			name:       "whitespace only counts as missing",
			draft:      Draft{FirstName: "  ", LastName: "Ng", Email: "bo@x.com"},
			wantFields: []Field{FieldFirstName},
		},
		{
			name:       "bad email",
			draft:      Draft{FirstName: "Bo", LastName: "Ng", Email: "bo@x"},
			wantFields: []Field{FieldEmail},
		},
		{
			name:       "unknown category",
			draft:      Draft{FirstName: "Bo", LastName: "Ng", Email: "bo@x.com", Category: "Colleagues"},
			wantFields: []Field{FieldCategory},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if len(verr.Fields) != len(tt.wantFields) {
				t.Errorf("invalid fields = %v, want %v", verr.Fields, tt.wantFields)
			}
			for _, f := range tt.wantFields {
				if _, ok := verr.Fields[f]; !ok {
					t.Errorf("missing problem for %s in %v", f, verr.Fields)
				}
			}
		})
	}
}

func TestValidationError_MessageIsOrdered(t *testing.T) {
	err := Draft{}.Validate()
	msg := err.Error()

	first := strings.Index(msg, "firstName")
	email := strings.Index(msg, "email")
	if first < 0 || email < 0 || first > email {
		t.Errorf("error message not in field order: %q", msg)
	}
}
