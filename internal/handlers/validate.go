// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxDocNameLen limits the display name of an uploaded PDF. Catalog field
// limits live in the request struct tags.
const maxDocNameLen = 300

// validate is shared by all handlers; validator caches struct metadata.
var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// createRequest is the body of POST /api/admin/products.
type createRequest struct {
	Type       string `json:"type" validate:"required,oneof=category product"`
	Title      string `json:"title" validate:"required_if=Type category,max=200"`
	CategoryID string `json:"categoryId" validate:"required_if=Type product"`
	Label      string `json:"label" validate:"max=100"`
	Name       string `json:"name" validate:"max=300"`
	Desc       string `json:"desc" validate:"max=2000"`
}

// updateRequest is the body of PUT /api/admin/products. Absent product
// fields are left unchanged.
type updateRequest struct {
	Type  string  `json:"type" validate:"required,oneof=category product"`
	ID    string  `json:"id" validate:"required"`
	Title *string `json:"title" validate:"omitempty,max=200"`
	Label *string `json:"label" validate:"omitempty,max=100"`
	Name  *string `json:"name" validate:"omitempty,max=300"`
	Desc  *string `json:"desc" validate:"omitempty,max=2000"`
}

// validationMessage turns a validator error into a client-facing message
// naming the first offending field.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request."
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("Field %q is required.", field)
	case "oneof":
		return fmt.Sprintf("Field %q must be one of: %s.", field, fe.Param())
	case "max":
		return fmt.Sprintf("Field %q is too long (max %s characters).", field, fe.Param())
	case "email":
		return fmt.Sprintf("Field %q must be a valid email address.", field)
	default:
		return fmt.Sprintf("Field %q is invalid.", field)
	}
}
