package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"assetvault/internal/workflow"
)

// consoleNotifier prints workflow outcomes to the terminal.
type consoleNotifier struct{}

func (consoleNotifier) Success(title, message string) {
	fmt.Printf("%s: %s\n", title, message)
}

func (consoleNotifier) Error(title, message string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
}

// consoleNavigator stands in for the app's screen navigation.
type consoleNavigator struct{}

func (consoleNavigator) RedirectToAuth() {
	fmt.Fprintln(os.Stderr, "not signed in: set ASSETVAULT_TOKEN")
}

func (consoleNavigator) NavigateHome() {}

func main() {
	var (
		server      = flag.String("server", "http://localhost:8080", "API base URL")
		videoPath   = flag.String("video", "", "path to the walkaround video")
		lidarPath   = flag.String("lidar", "", "path to the lidar scan (.ply/.pts/.xyz)")
		title       = flag.String("title", "", "asset title")
		description = flag.String("description", "", "asset description")
		framePath   = flag.String("frame", "", "optional camera frame image to analyze before submitting")
	)
	flag.Parse()

	ctx := context.Background()

	sessions := &workflow.StaticSessionProvider{}
	if token := os.Getenv("ASSETVAULT_TOKEN"); token != "" {
		sessions.Session = &workflow.Session{
			AccessToken: token,
			UserID:      os.Getenv("ASSETVAULT_USER_ID"),
		}
	}

	w := workflow.New(workflow.Deps{
		Sessions: sessions,
		Camera:   &workflow.FileCameraSource{Path: *framePath},
		API:      workflow.NewClient(*server),
		Notify:   consoleNotifier{},
		Nav:      consoleNavigator{},
	})

	w.SetTitle(*title)
	w.SetDescription(*description)

	if *videoPath != "" {
		f, err := workflow.OpenPath(*videoPath)
		if err != nil {
			log.Fatalf("video: %v", err)
		}
		w.SelectVideo(f)
	}
	if *lidarPath != "" {
		f, err := workflow.OpenPath(*lidarPath)
		if err != nil {
			log.Fatalf("lidar scan: %v", err)
		}
		if err := w.SelectLidar(f); err != nil {
			log.Fatalf("lidar scan: %v", err)
		}
	}

	if *framePath != "" {
		if err := w.OpenCamera(ctx); err != nil {
			log.Fatalf("camera: %v", err)
		}
		if err := w.CaptureAndAnalyze(ctx); err != nil {
			log.Fatalf("analyze: %v", err)
		}
		if a := w.Analysis(); a != nil && a.EstimatedValue != nil {
			fmt.Printf("estimated value: $%.2f (confidence %.1f)\n", *a.EstimatedValue, a.ConfidenceScore)
		}
	}

	if err := w.Submit(ctx); err != nil {
		os.Exit(1)
	}
}
