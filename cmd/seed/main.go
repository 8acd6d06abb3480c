// Command main fills the database with default and generated demo content.
package main

import (
	"context"
	"flag"
	"log"

	"streamsite/internal/bootstrap"
	"streamsite/internal/config"
	"streamsite/internal/seed"
)

func main() {
	defaults := flag.Bool("defaults", true, "Seed default site settings and content into empty tables")
	numAnnouncements := flag.Int("announcements", 10, "Number of fake announcements to create")
	numImages := flag.Int("gallery", 12, "Number of fake gallery images to create")
	numStreams := flag.Int("streams", 0, "Number of fake (unfeatured) streams to create")
	randSeed := flag.Int64("seed", 0, "Random seed for generated content (0 = random)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SeedDefaults: *defaults})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer rt.Close()

	f := seed.NewFactory(rt.Repos, *randSeed)
	if err := f.Announcements(ctx, *numAnnouncements); err != nil {
		log.Fatalf("Announcement seeding failed: %v", err)
	}
	if err := f.GalleryImages(ctx, *numImages); err != nil {
		log.Fatalf("Gallery seeding failed: %v", err)
	}
	if err := f.Streams(ctx, *numStreams); err != nil {
		log.Fatalf("Stream seeding failed: %v", err)
	}

	log.Printf("Seeded %d announcements, %d gallery images, %d streams",
		*numAnnouncements, *numImages, *numStreams)
}
