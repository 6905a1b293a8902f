// Package core provides the business logic for the inventory manager.
//
// # Error Codes Reference
//
// This file defines operator-friendly error messages with codes for support
// reference. Codes are grouped by category:
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Invalid date: Use MM/DD/YYYY, for example 01/15/2023
//	         Patterns: "invalid date"
//
//	VAL002 - Invalid price: Use digits with two decimals, for example 12.50
//	         Patterns: "invalid price"
//
//	VAL003 - Invalid quantity: Use a whole number of zero or more
//	         Patterns: "invalid quantity"
//
//	VAL004 - Missing column: The seed file lacks a required column
//	         Patterns: "missing required column"
//
//	VAL005 - Empty name: Product names cannot be empty
//	         Patterns: "empty name"
//
// # Product Errors (PRD001-PRD099)
//
//	PRD001 - Not found: No product matches the id or name
//	         Patterns: "product not found"
//
//	PRD002 - Duplicate: A product with this name already exists
//	         Patterns: "duplicate key"
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Store locked: Another process holds the inventory file
//	        Patterns: "timeout"
//
//	DB002 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused"
//
//	DB003 - Write failed: The store could not save the change
//	        Patterns: "persistence failure"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Invalid CSV: File is not a valid CSV
//	          Patterns: "invalid csv"
//
//	FILE002 - Empty file: The file has no header row
//	          Patterns: "empty file"
//
//	FILE003 - Permission denied: The file cannot be read or written
//	          Patterns: "permission denied"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns are listed
// before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides operator-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Validation Errors (VAL001-VAL005)
	// =========================================================================
	{
		pattern: "invalid date",
		msg: UserMessage{
			Message: "Invalid date format detected",
			Action:  "Use MM/DD/YYYY, for example 01/15/2023",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid price",
		msg: UserMessage{
			Message: "Invalid price detected",
			Action:  "Use a non-negative amount such as 12.50",
			Code:    "VAL002",
		},
	},
	{
		pattern: "invalid quantity",
		msg: UserMessage{
			Message: "Invalid quantity detected",
			Action:  "Use a whole number of zero or more",
			Code:    "VAL003",
		},
	},
	{
		pattern: "missing required column",
		msg: UserMessage{
			Message: "Required column is missing from CSV",
			Action:  "Check the header: product_name, product_quantity, product_price, date_updated",
			Code:    "VAL004",
		},
	},
	{
		pattern: "empty name",
		msg: UserMessage{
			Message: "Product name is empty",
			Action:  "Enter a product name",
			Code:    "VAL005",
		},
	},

	// =========================================================================
	// Product Errors (PRD001-PRD002)
	// =========================================================================
	{
		pattern: "product not found",
		msg: UserMessage{
			Message: "That product does not exist",
			Action:  "Check the product id and try again",
			Code:    "PRD001",
		},
	},
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A product with this name already exists",
			Action:  "Use add/update to change the existing product",
			Code:    "PRD002",
		},
	},

	// =========================================================================
	// Database Errors (DB001-DB003)
	// =========================================================================
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The inventory store is busy",
			Action:  "Close other copies of the program and try again",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB002",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE003)
	// =========================================================================
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure file is comma-separated with consistent columns",
			Code:    "FILE001",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The file is empty",
			Action:  "Provide a CSV file with a header row",
			Code:    "FILE002",
		},
	},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "The file cannot be accessed",
			Action:  "Check file permissions and try again",
			Code:    "FILE003",
		},
	},

	// Generic persistence failures come last so the more specific
	// database and file patterns above win.
	{
		pattern: "persistence failure",
		msg: UserMessage{
			Message: "The change could not be saved",
			Action:  "Check the application log and try again",
			Code:    "DB003",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the application log",
	Code:    "ERR000",
}

// MapError converts a technical error to an operator-friendly message.
// If no pattern matches, a generic fallback message with code ERR000 is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
