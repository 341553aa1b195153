// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

package presenter

import "github.com/vorlif/spreak/localize"

// MoonPhaseIcon maps moon phase names to their emoji representations.
var MoonPhaseIcon = map[string]string{
	"New Moon":        "🌑",
	"Waxing Crescent": "🌒",
	"First Quarter":   "🌓",
	"Waxing Gibbous":  "🌔",
	"Full Moon":       "🌕",
	"Waning Gibbous":  "🌖",
	"Third Quarter":   "🌗",
	"Waning Crescent": "🌘",
}

var i18nVars = map[string]localize.MsgID{
	"feelslike":       "Feels like",
	"humidity":        "Humidity",
	"uvindex":         "UV index",
	"sunrise":         "Sunrise",
	"sunset":          "Sunset",
	"moonphase":       "Moon phase",
	"updated":         "Updated",
	"new moon":        "New moon",
	"waxing crescent": "Waxing crescent",
	"first quarter":   "First quarter",
	"waxing gibbous":  "Waxing gibbous",
	"full moon":       "Full moon",
	"waning gibbous":  "Waning gibbous",
	"third quarter":   "Third quarter",
	"waning crescent": "Waning crescent",
}
