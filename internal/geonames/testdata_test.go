package geonames_test

import "strings"

// row joins the 19 columns of a dump line.
func row(cols ...string) string {
	return strings.Join(cols, "\t")
}

var sampleDump = strings.Join([]string{
	row("993800", "Johannesburg", "Johannesburg", "Egoli,Joburg", "-26.20227", "28.04363", "P", "PPLA", "ZA", "", "06", "", "", "", "957441", "", "1767", "Africa/Johannesburg", "2019-09-05"),
	row("184745", "Nairobi", "Nairobi", "NBO", "-1.28333", "36.81667", "P", "PPLC", "KE", "", "05", "", "", "", "2750547", "", "1691", "Africa/Nairobi", "2020-01-01"),
	row("3369157", "Cape Town", "Cape Town", "", "-33.92584", "18.42322", "P", "PPLA", "ZA", "", "11", "CPT", "", "", "3433441", "", "7", "Africa/Johannesburg", "2019-09-05"),
	row("1000501", "Table Mountain", "Table Mountain", "", "-33.9625", "18.40361", "T", "MT", "ZA", "", "11", "", "", "", "0", "1085", "1059", "Africa/Johannesburg", "2012-01-16"),
	row("5128581", "New York City", "New York City", "NYC", "40.71427", "-74.00597", "P", "PPL", "US", "", "NY", "", "", "", "8804190", "10", "57", "America/New_York", "2022-04-01"),
	row("4140963", "Washington", "Washington", "DC", "38.89511", "-77.03637", "P", "PPLC", "US", "", "DC", "001", "", "", "689545", "", "6", "America/New_York", "2022-10-21"),
	row("5391959", "San Francisco", "San Francisco", "SF", "37.77493", "-122.41942", "P", "PPL", "US", "", "CA", "075", "", "", "864816", "16", "28", "America/Los_Angeles", "2022-02-01"),
}, "\n") + "\n"
