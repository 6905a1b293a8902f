package application

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/JonMunkholm/inventory/internal/handler"
	tea "github.com/charmbracelet/bubbletea"
)

// flow is a sequence of prompts ending in one command.
//
// accept receives the trimmed input for a step. It returns a problem to
// re-prompt the same step, nil and no problem to advance, or the command to
// run once the last step is accepted.
type flow struct {
	title  string
	steps  []string
	accept func(step int, input string) (tea.Cmd, string)

	// retry maps a failed command to a re-prompt of the last step.
	// A nil retry sends every failure back to the menu.
	retry func(err error) (string, bool)
}

func viewFlow(inv *handler.Inventory) *flow {
	return &flow{
		title: "View Product",
		steps: []string{"Product id"},
		accept: func(_ int, input string) (tea.Cmd, string) {
			id, err := strconv.ParseInt(input, 10, 64)
			if err != nil {
				return nil, "Enter a numeric product id."
			}
			return inv.View(id), ""
		},
		retry: func(err error) (string, bool) {
			var nf *core.NotFoundError
			if errors.As(err, &nf) {
				return fmt.Sprintf("No product with id %s. Try another id.", nf.Value), true
			}
			return "", false
		},
	}
}

func saveFlow(inv *handler.Inventory) *flow {
	var (
		name     string
		quantity int64
	)

	return &flow{
		title: "Add / Update Product",
		steps: []string{"Product name", "Quantity", "Price"},
		accept: func(step int, input string) (tea.Cmd, string) {
			switch step {
			case 0:
				if input == "" {
					return nil, "Name cannot be empty."
				}
				name = input
				return nil, ""
			case 1:
				q, err := core.ParseQuantity(input)
				if err != nil {
					return nil, "Quantity must be a whole number, 0 or more."
				}
				quantity = q
				return nil, ""
			default:
				amount, err := strconv.ParseFloat(input, 64)
				if err != nil {
					return nil, "Price must be a number, like 4.99."
				}
				price, err := core.PriceFromFloat(amount)
				if err != nil {
					return nil, priceProblem(err)
				}
				return inv.Save(name, quantity, price), ""
			}
		},
	}
}

// priceProblem turns a PriceFromFloat rejection into a prompt hint.
func priceProblem(err error) string {
	var fe *core.FormatError
	if errors.As(err, &fe) {
		switch fe.Reason {
		case "invalid price: must be non-negative":
			return "Price must be 0 or more."
		case "invalid price: out of range":
			return "Price is too large."
		}
	}
	return "Price must be a number, like 4.99."
}
