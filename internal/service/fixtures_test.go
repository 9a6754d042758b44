package service

import (
	"github.com/Lixing-Zhang/campus-food-finder/internal/hours"
	"github.com/Lixing-Zhang/campus-food-finder/internal/models"
)

// testCampus has a weekday cafe in SUB and an overnight bistro in ECS
func testCampus() []models.Building {
	weekdays := func(windows ...hours.TimeWindow) hours.VendorHours {
		h := hours.VendorHours{}
		for _, d := range []hours.DayOfWeek{hours.Monday, hours.Tuesday, hours.Wednesday, hours.Thursday, hours.Friday} {
			h[d] = windows
		}
		return h
	}

	return []models.Building{
		{
			ID:   "SUB",
			Name: "Student Union Building",
			Vendors: []models.FoodVendor{
				{
					ID:    "cafe",
					Name:  "Union Cafe",
					Hours: weekdays(hours.MustWindow(9*60, 17*60)),
					Menu: models.Menu{Sections: []models.MenuSection{
						{Name: "Drinks", Items: []models.MenuItem{
							{ID: "latte", Name: "Oat Latte", Price: 525, Tags: []models.Tag{models.TagVegan, models.TagDairyFree}},
							{ID: "mocha", Name: "Mocha", Price: 575, Tags: []models.Tag{models.TagDairyFreeOption}},
						}},
						{Name: "Bakery", Items: []models.MenuItem{
							{ID: "bagel", Name: "Sesame Bagel", Price: 300},
						}},
					}},
				},
			},
		},
		{
			ID:   "ECS",
			Name: "Engineering Computer Science",
			Vendors: []models.FoodVendor{
				{
					ID:   "bistro",
					Name: "Night Bistro",
					Hours: hours.VendorHours{
						hours.Friday:   {hours.MustWindow(11*60, 14*60), hours.MustWindow(20*60, 2*60)},
						hours.Saturday: {hours.MustWindow(20*60, 2*60)},
					},
					Menu: models.Menu{Sections: []models.MenuSection{
						{Name: "Mains", Items: []models.MenuItem{
							{ID: "shawarma", Name: "Chicken Shawarma", Price: 1250, Tags: []models.Tag{models.TagHalal}},
							{ID: "falafel", Name: "Falafel Wrap", Price: 1050, Tags: []models.Tag{models.TagVegan, models.TagHalal}},
						}},
					}},
				},
			},
		},
	}
}
