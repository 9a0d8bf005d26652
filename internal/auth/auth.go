// Package auth holds Betfair login credentials.
package auth

import (
	"fmt"
	"os"
	"strings"

	"github.com/rickgao/betfair-soap/internal/validate"
)

// FreeAPIProductID is the product id of the free access API.
const FreeAPIProductID = 82

// Credentials holds everything the login operation needs.
type Credentials struct {
	Username         string
	Password         string
	ProductID        int
	VendorSoftwareID int // 0 unless the software is a registered vendor product
	LocationID       int
	IPAddress        string // "0" lets the server use the connecting address
}

// NewCredentials builds credentials for the free API and checks their shape.
func NewCredentials(username, password string) (*Credentials, error) {
	c := &Credentials{
		Username:  username,
		Password:  password,
		ProductID: FreeAPIProductID,
		IPAddress: "0",
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadCredentials builds credentials reading the password from passwordPath.
// Trailing newlines in the file are ignored.
func LoadCredentials(username, passwordPath string) (*Credentials, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if passwordPath == "" {
		return nil, fmt.Errorf("password file is required")
	}

	password, err := LoadPassword(passwordPath)
	if err != nil {
		return nil, fmt.Errorf("load password: %w", err)
	}

	return NewCredentials(username, password)
}

// LoadPassword reads a password file.
func LoadPassword(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read password file: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// Validate checks the credentials against the login parameter types.
func (c *Credentials) Validate() error {
	if !validate.Check(validate.TagUsername, c.Username) {
		return fmt.Errorf("username must be 8-20 alphanumeric characters")
	}
	if !validate.Check(validate.TagPassword, c.Password) {
		return fmt.Errorf("password must be 8-20 characters")
	}
	if c.ProductID <= 0 {
		return fmt.Errorf("product id must be positive")
	}
	if c.IPAddress == "" {
		return fmt.Errorf("ip address is required")
	}
	return nil
}

// LoginArgs returns the argument set of the login operation.
func (c *Credentials) LoginArgs() validate.Args {
	return validate.Args{
		"username":         c.Username,
		"password":         c.Password,
		"productId":        c.ProductID,
		"vendorSoftwareId": c.VendorSoftwareID,
		"locationId":       c.LocationID,
		"ipAddress":        c.IPAddress,
	}
}

// String redacts the password.
func (c *Credentials) String() string {
	return fmt.Sprintf("Credentials{Username: %s, ProductID: %d}", c.Username, c.ProductID)
}
