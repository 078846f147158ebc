package config

import (
	"fmt"
	"strings"
)

// Selectable values offered by the post optimizer
var (
	Audiences = []string{
		"General", "Teenagers", "Young Adults", "Professionals", "Parents", "Seniors",
		"Business Owners", "Travel Enthusiasts", "Health & Fitness", "Tech Enthusiasts",
		"Fashion Enthusiasts", "Foodies",
	}
	Themes = []string{
		"General", "Lifestyle", "Travel", "Food", "Fashion", "Beauty", "Fitness",
		"Business", "Education", "Technology", "Entertainment", "Motivation",
	}
	Tones = []string{
		"Professional", "Casual", "Friendly", "Authoritative", "Inspirational",
		"Humorous", "Serious", "Conversational", "Enthusiastic", "Informative",
	}
)

const (
	MinHashtags     = 1
	MaxHashtags     = 30
	DefaultHashtags = 10
)

// Selectable values offered by the news search
var (
	NewsCategories = []string{
		"World News", "Technology", "Business", "Politics", "Sports",
		"Entertainment", "Science", "Health", "Environment", "Education",
	}

	// RegionNames keeps display order; Regions maps names to provider codes
	RegionNames = []string{
		"India", "United States", "United Kingdom", "Canada", "Australia",
		"Germany", "France", "Japan", "Brazil", "Global",
	}
	Regions = map[string]string{
		"India":          "in-en",
		"United States":  "us-en",
		"United Kingdom": "uk-en",
		"Canada":         "ca-en",
		"Australia":      "au-en",
		"Germany":        "de-de",
		"France":         "fr-fr",
		"Japan":          "jp-jp",
		"Brazil":         "br-pt",
		"Global":         "wt-wt",
	}

	TimeFilterNames = []string{"Last 24 hours", "Last week", "Last month"}
	TimeFilters     = map[string]string{
		"Last 24 hours": "d",
		"Last week":     "w",
		"Last month":    "m",
	}
)

const (
	DefaultRegion     = "Global"
	DefaultTimeFilter = "Last 24 hours"

	MinNewsResults     = 5
	MaxNewsResults     = 30
	DefaultNewsResults = 10
)

// Match returns the option equal to value ignoring case and surrounding space
func Match(options []string, value string) (string, error) {
	v := strings.TrimSpace(value)
	for _, o := range options {
		if strings.EqualFold(o, v) {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown option %q (choose one of: %s)", v, strings.Join(options, ", "))
}

// ResolveRegion accepts either a region name or a provider code
func ResolveRegion(value string) (name, code string, err error) {
	v := strings.TrimSpace(value)
	for n, c := range Regions {
		if strings.EqualFold(c, v) {
			return n, c, nil
		}
	}
	n, err := Match(RegionNames, v)
	if err != nil {
		return "", "", err
	}
	return n, Regions[n], nil
}

// ResolveTimeFilter accepts either a label ("Last week") or a code ("w")
func ResolveTimeFilter(value string) (label, code string, err error) {
	v := strings.TrimSpace(value)
	for l, c := range TimeFilters {
		if strings.EqualFold(c, v) {
			return l, c, nil
		}
	}
	l, err := Match(TimeFilterNames, v)
	if err != nil {
		return "", "", err
	}
	return l, TimeFilters[l], nil
}
