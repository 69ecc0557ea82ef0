package handlers

import (
	"errors"
	"strings"
	"testing"
)

func TestValidationMessage(t *testing.T) {
	long := strings.Repeat("x", 201)
	tests := []struct {
		name string
		req  any
		want string
	}{
		{"missing type", createRequest{}, `Field "type" is required.`},
		{"bad type", createRequest{Type: "widget"}, `Field "type" must be one of: category product.`},
		{"category title required", createRequest{Type: "category"}, `Field "title" is required.`},
		{"title too long", createRequest{Type: "category", Title: long}, `Field "title" is too long (max 200 characters).`},
		{"product category required", createRequest{Type: "product"}, `Field "categoryId" is required.`},
		{"update id required", updateRequest{Type: "product"}, `Field "id" is required.`},
		{"update title too long", updateRequest{Type: "category", ID: "c", Title: &long}, `Field "title" is too long (max 200 characters).`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if got := validationMessage(err); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationAccepts(t *testing.T) {
	name := "Xylene"
	valid := []any{
		createRequest{Type: "category", Title: "Solvents"},
		createRequest{Type: "product", CategoryID: "solvents"},
		updateRequest{Type: "product", ID: "p1"},
		updateRequest{Type: "product", ID: "p1", Name: &name},
	}
	for i, req := range valid {
		if err := validate.Struct(req); err != nil {
			t.Errorf("case %d: unexpected error: %v", i, err)
		}
	}
}

func TestValidationMessageNonValidatorError(t *testing.T) {
	if got := validationMessage(errors.New("boom")); got != "Invalid request." {
		t.Errorf("got %q", got)
	}
}
