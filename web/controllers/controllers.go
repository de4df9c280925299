package controllers

import (
	"github.com/campusbites/campusbites-client/internal/accounts"
	"github.com/campusbites/campusbites-client/internal/cart"
)

// Page carries the fields every template's chrome needs.
type Page struct {
	Title     string
	CartCount int
	User      *accounts.User
}

func newPage(title string, cartStore *cart.Store, sessions *accounts.Session) Page {
	p := Page{Title: title}
	if cartStore != nil {
		p.CartCount = cartStore.ItemCount()
	}
	if sessions != nil {
		p.User = sessions.Current()
	}
	return p
}
