package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/baliyoga/baliyoga-backend/config"
	"github.com/baliyoga/baliyoga-backend/internal/app/model"
	"github.com/baliyoga/baliyoga-backend/internal/app/repository"
	"github.com/baliyoga/baliyoga-backend/internal/db"
	"github.com/baliyoga/baliyoga-backend/internal/storage"
	"github.com/baliyoga/baliyoga-backend/pkg/slug"
	"github.com/baliyoga/baliyoga-backend/pkg/util"
)

// Expected sheet columns, in order:
// id, name, category, city, address, rating, review_count, phone, website,
// email, description, instagram, facebook, whatsapp, images (semicolon-separated)
const expectedColumns = 15

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> [--cache-images] [--verify-mx]")
	}

	filePath := os.Args[1]
	var cacheImages, verifyMX bool
	for _, arg := range os.Args[2:] {
		switch arg {
		case "--cache-images":
			cacheImages = true
		case "--verify-mx":
			verifyMX = true
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	listingRepo := repository.NewListingRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	listings, err := readListingsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	if verifyMX {
		fmt.Println("Verifying email MX records...")
		dropped := 0
		for i := range listings {
			if listings[i].Email != "" && !util.IsDeliverableEmail(listings[i].Email) {
				listings[i].Email = ""
				dropped++
			}
		}
		fmt.Printf("Dropped undeliverable emails: %d\n", dropped)
	}

	fmt.Printf("Total listings to import: %d\n", len(listings))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	if cacheImages {
		fmt.Println("Mirroring listing images to S3...")
		imageStorage := storage.NewImageStorage(cfg.S3)
		for i := range listings {
			cached := imageStorage.CacheListingImages(
				context.Background(), listings[i].ID, listings[i].Category, listings[i].Images)
			if len(cached) > 0 {
				listings[i].Images = cached
			}
		}
	}

	if err := listingRepo.CreateBatch(listings); err != nil {
		log.Fatal("Failed to import listings:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total listings imported: %d\n", len(listings))
}

func readListingsFromXLSX(filePath string) ([]model.Listing, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var listings []model.Listing
	seenSlugs := make(map[string]bool)
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < expectedColumns {
			skippedCount++
			continue
		}

		id := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		category := slug.Category(strings.TrimSpace(row[2]))
		city := strings.TrimSpace(row[3])
		address := strings.TrimSpace(row[4])
		email := strings.TrimSpace(row[9])

		if name == "" {
			skippedCount++
			continue
		}
		if category != slug.CategoryStudio && category != slug.CategoryRetreat {
			skippedCount++
			continue
		}
		if id == "" {
			id = uuid.NewString()
		}
		if email != "" && !util.IsValidEmailSyntax(email) {
			email = ""
		}

		rating, _ := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
		reviewCount, _ := strconv.Atoi(strings.TrimSpace(row[6]))

		generatedSlug := slug.Generate(name, city, category)
		if seenSlugs[generatedSlug] {
			skippedCount++
			continue
		}
		seenSlugs[generatedSlug] = true

		var images []string
		for _, img := range strings.Split(strings.TrimSpace(row[14]), ";") {
			if img = strings.TrimSpace(img); img != "" {
				images = append(images, img)
			}
		}

		listings = append(listings, model.Listing{
			ID:                  id,
			Name:                name,
			Slug:                generatedSlug,
			Category:            category,
			City:                city,
			LocationSlug:        slug.LocationSlug(city),
			Address:             address,
			Rating:              rating,
			ReviewCount:         reviewCount,
			PhoneNumber:         strings.TrimSpace(row[7]),
			Website:             strings.TrimSpace(row[8]),
			Email:               email,
			BusinessDescription: strings.TrimSpace(row[10]),
			InstagramURL:        strings.TrimSpace(row[11]),
			FacebookURL:         strings.TrimSpace(row[12]),
			WhatsappNumber:      strings.TrimSpace(row[13]),
			Images:              model.StringArray(images),
		})
	}

	fmt.Printf("Skipped rows: %d\n", skippedCount)
	return listings, nil
}
