package validate

import (
	"testing"

	pkgerrors "github.com/javaweb/webshop-client/pkg/errors"
)

type loginInput struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestStructAcceptsValidInput(t *testing.T) {
	if err := Struct(loginInput{Username: "alice", Password: "secret1"}); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
}

func TestStructReportsFieldDetailsByJSONName(t *testing.T) {
	err := Struct(loginInput{Username: "al"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected detail map, got %T", typed.Details())
	}
	if details["username"] == "" {
		t.Fatalf("expected username detail keyed by json tag, got %v", details)
	}
	if details["password"] != "is required" {
		t.Fatalf("expected password required detail, got %v", details)
	}
}
