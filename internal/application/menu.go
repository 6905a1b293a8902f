package application

import (
	"github.com/JonMunkholm/inventory/internal/handler"
	tea "github.com/charmbracelet/bubbletea"
)

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

type MenuItem struct {
	Label   string
	Submenu *Menu
	Action  func() tea.Cmd
}

type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

/* ----------------------------------------
	MENU TREE DEFINITION
---------------------------------------- */

func linkParents(menu *Menu, parent *Menu) {
	menu.Parent = parent

	for i := range menu.Items {
		item := &menu.Items[i]

		if item.Label == "Back" {
			item.Submenu = parent
			continue
		}

		if item.Submenu != nil {
			linkParents(item.Submenu, menu)
		}
	}
}

func buildMenuTree(m *Model) *Menu {
	inv := handler.NewInventory(m.svc)

	/* Submenus */
	submenuInfo := &Menu{
		Title: "Info",
		Items: []MenuItem{
			{Label: "Show Store", Action: func() tea.Cmd {
				return func() tea.Msg { return handler.WdMsg("Store: " + m.storeInfo) }
			}},
			{Label: "Show Backup File", Action: inv.BackupPath},
			{Label: "Back"},
		},
	}

	/* Root Menu */
	root := &Menu{
		Title: "Inventory",
		Items: []MenuItem{
			{Label: "View Product", Action: func() tea.Cmd {
				return m.startFlow(viewFlow(inv))
			}},
			{Label: "Add / Update Product", Action: func() tea.Cmd {
				return m.startFlow(saveFlow(inv))
			}},
			{Label: "List Products", Action: m.run(inv.List)},
			{Label: "Back Up Inventory", Action: m.run(inv.Backup)},
			{Label: "Info ->", Submenu: submenuInfo},
			{Label: "Quit", Action: func() tea.Cmd {
				m.quitting = true
				return tea.Quit
			}},
		},
	}

	linkParents(root, nil)

	return root
}
