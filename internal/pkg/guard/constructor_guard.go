// Package guard holds the construction guard shared by value objects, commands and queries.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller supplies no error of its own.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a struct as built by its constructor. The zero value is
// "not constructed", so a struct literal that skips the constructor fails Validate.
//
// Example:
//
//	var ErrContactIsNotConstructed = errors.New("Contact must be created via NewContact")
//
//	type Contact struct {
//	    name  string
//	    phone string
//	    guard guard.ConstructorGuard
//	}
//
//	func NewContact(name, phone string) (Contact, error) {
//	    if name == "" {
//	        return Contact{}, errs.NewValueIsRequiredError("name")
//	    }
//	    return Contact{name: name, phone: phone, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (c Contact) Validate() error {
//	    return c.guard.Validate(ErrContactIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard and validationError otherwise.
// A nil validationError is replaced by ErrDefaultConstructorGuard.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
