package handler

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Inventory builds the commands behind the inventory menu. Each command runs
// one service call; the service applies its own timeouts.
type Inventory struct {
	Service Service
}

// NewInventory creates an Inventory over svc.
func NewInventory(svc Service) *Inventory {
	return &Inventory{Service: svc}
}

// View looks up the product with id.
func (h *Inventory) View(id int64) tea.Cmd {
	return func() tea.Msg {
		p, err := h.Service.ViewProduct(context.Background(), id)
		if err != nil {
			return fail("view", err)
		}
		return ProductMsg{Product: p}
	}
}

// Save adds or updates the product called name.
func (h *Inventory) Save(name string, quantity, price int64) tea.Cmd {
	return func() tea.Msg {
		p, created, err := h.Service.SaveProduct(context.Background(), name, quantity, price)
		if err != nil {
			return fail("save", err)
		}
		if created {
			return DoneMsg(fmt.Sprintf("Added %q (id %d)", p.Name, p.ID))
		}
		return DoneMsg(fmt.Sprintf("Updated %q (id %d)", p.Name, p.ID))
	}
}

// List loads every product.
func (h *Inventory) List() tea.Cmd {
	return func() tea.Msg {
		products, err := h.Service.Products(context.Background())
		if err != nil {
			return fail("list", err)
		}
		return ProductsMsg{Products: products}
	}
}

// Backup writes the backup file.
func (h *Inventory) Backup() tea.Cmd {
	return func() tea.Msg {
		result, err := h.Service.Backup(context.Background())
		if err != nil {
			return fail("backup", err)
		}
		return DoneMsg(fmt.Sprintf("Backed up %d products to %s", result.Records, result.Path))
	}
}

// BackupPath reports where backups are written.
func (h *Inventory) BackupPath() tea.Cmd {
	return func() tea.Msg {
		return WdMsg("Backup file: " + h.Service.BackupPath())
	}
}
