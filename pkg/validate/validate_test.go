package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/campuseats/pkg/validate"
)

type checkoutInput struct {
	DeliveryType  string  `json:"delivery_type"  validate:"required,in=pickup,hostel"`
	PaymentMethod string  `json:"payment_method" validate:"required,in=gateway,wallet"`
	RoomNumber    string  `json:"room_number"    validate:"nullable,max=50"`
	Rating        int     `json:"rating"         validate:"required,gte=1,lte=5"`
	Amount        float64 `json:"amount"         validate:"required,gt=0"`
	ImageURL      string  `json:"image_url"      validate:"nullable,url"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(checkoutInput{
		DeliveryType:  "hostel",
		PaymentMethod: "wallet",
		RoomNumber:    "B-214",
		Rating:        4,
		Amount:        149.5,
		ImageURL:      "", // nullable — allowed to be empty
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(checkoutInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	if _, ok := errs["delivery_type"]; !ok {
		t.Error("expected delivery_type to be required")
	}
	if _, ok := errs["payment_method"]; !ok {
		t.Error("expected payment_method to be required")
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Method string `json:"method" validate:"required,in=gateway,wallet"`
	}
	if errs := validate.Struct(in{Method: "cash"}); !validate.HasErrors(errs) {
		t.Error("expected invalid method to fail")
	}
	if errs := validate.Struct(in{Method: "wallet"}); validate.HasErrors(errs) {
		t.Errorf("expected wallet to pass: %v", errs)
	}
}

func TestNumericBounds(t *testing.T) {
	type in struct {
		Rating int `json:"rating" validate:"required,gte=1,lte=5"`
	}
	if errs := validate.Struct(in{Rating: 6}); !validate.HasErrors(errs) {
		t.Error("expected rating > 5 to fail")
	}
	if errs := validate.Struct(in{Rating: 3}); validate.HasErrors(errs) {
		t.Errorf("expected rating 3 to pass, got: %v", errs)
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(in{Email: "asha@mlrit.ac.in"})
	if validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestNullableSkipsRules(t *testing.T) {
	type in struct {
		ImageURL string `json:"image_url" validate:"nullable,url"`
	}
	// Empty string — nullable, should pass even though it's not a URL
	if errs := validate.Struct(in{ImageURL: ""}); validate.HasErrors(errs) {
		t.Errorf("expected empty nullable to pass: %v", errs)
	}
	// Non-empty but invalid URL — should fail
	if errs := validate.Struct(in{ImageURL: "not-a-url"}); !validate.HasErrors(errs) {
		t.Error("expected invalid URL to fail")
	}
}

func TestGtRejectsZero(t *testing.T) {
	type in struct {
		Amount float64 `json:"amount" validate:"required,gt=0"`
	}
	if errs := validate.Struct(in{Amount: 0}); !validate.HasErrors(errs) {
		t.Error("expected zero amount to fail")
	}
	if errs := validate.Struct(in{Amount: -5}); !validate.HasErrors(errs) {
		t.Error("expected negative amount to fail")
	}
	if errs := validate.Struct(in{Amount: 0.5}); validate.HasErrors(errs) {
		t.Errorf("expected positive amount to pass: %v", errs)
	}
}
