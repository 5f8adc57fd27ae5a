package checkout

import (
	"encoding/json"
	"testing"
)

func TestGuestCountUnmarshalLegacyInteger(t *testing.T) {
	var guests GuestCount
	if err := json.Unmarshal([]byte(`4`), &guests); err != nil {
		t.Fatalf("unmarshal legacy integer: %v", err)
	}

	if guests.Adults != 4 || guests.Children != 0 {
		t.Errorf("guests = %+v, want {Adults:4 Children:0}", guests)
	}
}

func TestGuestCountUnmarshalObject(t *testing.T) {
	var guests GuestCount
	if err := json.Unmarshal([]byte(`{"adults":2,"children":1}`), &guests); err != nil {
		t.Fatalf("unmarshal object: %v", err)
	}

	if guests.Adults != 2 || guests.Children != 1 {
		t.Errorf("guests = %+v, want {Adults:2 Children:1}", guests)
	}
	if guests.Total() != 3 {
		t.Errorf("total = %d, want 3", guests.Total())
	}
}

func TestGuestCountUnmarshalRejectsOtherShapes(t *testing.T) {
	var guests GuestCount
	if err := json.Unmarshal([]byte(`"two"`), &guests); err == nil {
		t.Error("expected an error for a string guest count")
	}
}

func TestGuestCountAlwaysMarshalsAsObject(t *testing.T) {
	data, err := json.Marshal(GuestCount{Adults: 4})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"adults":4,"children":0}`
	if string(data) != want {
		t.Errorf("marshalled = %s, want %s", data, want)
	}
}

func TestGuestCountNormalizeClampsNegatives(t *testing.T) {
	guests := GuestCount{Adults: -1, Children: -3}
	guests.Normalize()

	if guests.Adults != 0 || guests.Children != 0 {
		t.Errorf("guests = %+v, want zeroes", guests)
	}
}

func TestGuestInfoComplete(t *testing.T) {
	complete := GuestInfo{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+1 555 0100",
	}
	if !complete.Complete() {
		t.Error("expected complete guest info")
	}

	tests := []struct {
		name string
		info GuestInfo
	}{
		{"empty", GuestInfo{}},
		{"missing phone", GuestInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}},
		{"whitespace only", GuestInfo{FirstName: "  ", LastName: "Lovelace", Email: "ada@example.com", Phone: "555"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.info.Complete() {
				t.Errorf("expected incomplete guest info: %+v", tt.info)
			}
		})
	}
}

func TestStepString(t *testing.T) {
	tests := []struct {
		step Step
		want string
	}{
		{StepAuth, "auth"},
		{StepSummary, "summary"},
		{StepPayment, "payment"},
		{StepConfirmed, "confirmed"},
		{Step(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.step.String(); got != tt.want {
			t.Errorf("Step(%d).String() = %q, want %q", tt.step, got, tt.want)
		}
	}
}
