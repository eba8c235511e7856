package config

// Categories lists the category vocabulary deal sources commonly use;
// surfaced through tool discovery so callers know what to filter on.
var Categories = []string{
	"electronics",
	"computers",
	"home-garden",
	"clothing",
	"automotive",
	"sports-outdoors",
	"health-beauty",
	"toys-games",
	"books-media",
	"food-dining",
	"travel",
	"services",
}

// PopularStores lists well-known retailer identifiers for store filters.
var PopularStores = []string{
	"amazon",
	"best-buy",
	"walmart",
	"target",
	"costco",
	"home-depot",
	"lowes",
	"macys",
	"newegg",
	"ebay",
}
