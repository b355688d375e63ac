package collections

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

type projectDef struct {
	title       string
	category    string
	description string
	price       float64
	author      string
	rating      float64
	sales       int
	imageURL    string
	featured    bool
	added       string // YYYY-MM-DD
	uiPrice     float64
	codePrice   float64
	docPrice    float64
}

var seedProjects = []projectDef{
	{
		title:       "AI-Powered Student Attendance System",
		category:    "AI & Machine Learning",
		description: "A facial recognition system that automates student attendance tracking, with an admin dashboard, reports and mobile app integration.",
		price:       199.99, author: "Alex Johnson", rating: 4.8, sales: 74,
		imageURL: "https://images.unsplash.com/photo-1677442136019-21780ecad995?w=600",
		featured: true, added: "2023-10-15",
		uiPrice: 59.99, codePrice: 129.99, docPrice: 29.99,
	},
	{
		title:       "Smart Inventory Management System",
		category:    "Web Development",
		description: "Inventory management with barcode scanning, real-time stock updates and sales analytics for small businesses.",
		price:       149.99, author: "Sarah Williams", rating: 4.5, sales: 102,
		imageURL: "https://images.unsplash.com/photo-1553413077-190dd305871c?w=600",
		featured: true, added: "2023-09-22",
		uiPrice: 39.99, codePrice: 99.99,
	},
	{
		title:       "Blockchain-based Voting System",
		category:    "Blockchain",
		description: "A tamper-proof voting system built on Ethereum smart contracts with real-time result verification.",
		price:       299.99, author: "Michael Chen", rating: 4.9, sales: 56,
		imageURL: "https://images.unsplash.com/photo-1639762681485-074b7f938ba0?w=600",
		featured: true, added: "2023-11-05",
		uiPrice: 79.99, codePrice: 189.99, docPrice: 49.99,
	},
	{
		title:       "Health Monitoring IoT Solution",
		category:    "IoT Projects",
		description: "Sensors and a cloud dashboard that track vital signs and alert caregivers about potential health issues.",
		price:       249.99, author: "Emily Rodriguez", rating: 4.7, sales: 89,
		imageURL: "https://images.unsplash.com/photo-1576091160399-112ba8d25d1d?w=600",
		added:    "2023-08-10",
		codePrice: 169.99, docPrice: 39.99,
	},
	{
		title:       "Urban Transportation Optimization",
		category:    "Data Science",
		description: "Optimizes urban transit routes and schedules using machine learning and real-time traffic data.",
		price:       179.99, author: "Lisa Nelson", rating: 4.4, sales: 65,
		imageURL: "https://images.unsplash.com/photo-1544620347-c4fd4a3d5957?w=600",
		added:    "2023-10-28",
	},
	{
		title:       "Language Learning Mobile App",
		category:    "Mobile Apps",
		description: "A cross-platform language learning app with spaced repetition, speech recognition and progress tracking.",
		price:       129.99, author: "Kevin Martinez", rating: 4.7, sales: 210,
		imageURL: "https://images.unsplash.com/photo-1546410531-bb4caa6b424d?w=600",
		featured: true, added: "2023-07-15",
		uiPrice: 34.99, codePrice: 89.99, docPrice: 19.99,
	},
}

// Seed inserts a sample catalog. Safe to call on every startup -- it
// returns early if any project records already exist.
func Seed(app *pocketbase.PocketBase) error {
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("seed: could not find projects collection: %w", err)
	}
	existing, err := app.FindAllRecords(projectsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query projects: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Printf("seed: projects collection is empty, inserting %d sample projects\n", len(seedProjects))

	return app.RunInTransaction(func(txApp core.App) error {
		for _, d := range seedProjects {
			added, err := time.Parse("2006-01-02", d.added)
			if err != nil {
				return fmt.Errorf("seed: bad date for %q: %w", d.title, err)
			}
			dt, err := types.ParseDateTime(added)
			if err != nil {
				return fmt.Errorf("seed: convert date for %q: %w", d.title, err)
			}

			rec := core.NewRecord(projectsCol)
			rec.Set("title", d.title)
			rec.Set("category", d.category)
			rec.Set("description", d.description)
			rec.Set("price", d.price)
			rec.Set("author", d.author)
			rec.Set("rating", d.rating)
			rec.Set("sales", d.sales)
			rec.Set("image_url", d.imageURL)
			rec.Set("is_featured", d.featured)
			rec.Set("date_added", dt)
			rec.Set("ui_price", d.uiPrice)
			rec.Set("code_price", d.codePrice)
			rec.Set("documentation_price", d.docPrice)
			if err := txApp.Save(rec); err != nil {
				return fmt.Errorf("seed: save project %q: %w", d.title, err)
			}
		}
		return nil
	})
}
