package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"similarimages/database"
	"similarimages/hashing"
	"similarimages/logging"
	"similarimages/matcher"
	"similarimages/report"
	"similarimages/scanner"
	"similarimages/signalhandler"
	"similarimages/utils"
)

func main() {
	// Set up proper signal handling
	signalhandler.SetupHandler()

	// Set the optimal number of CPUs to use
	runtime.GOMAXPROCS(signalhandler.GetOptimalProcs())

	// Parse command line arguments into a map
	args := utils.ParseArguments()

	command, hasCommand := args["command"]

	// Setup debug logging if enabled
	debugMode := false
	if _, ok := args["debug"]; ok {
		debugMode = true
		logPath := "similarimages.log"
		if customLogPath, ok := args["logfile"]; ok && customLogPath != "" {
			logPath = customLogPath
		}
		if err := logging.SetupLogger(logPath); err != nil {
			fmt.Printf("Warning: Failed to setup logging: %v\n", err)
		} else {
			fmt.Printf("Debug mode enabled. Logging to: %s\n", logPath)
		}
		defer logging.CloseLogger()
	}

	// Check if required arguments are missing
	showUsage := !hasCommand

	if hasCommand && command == "find" && args["path"] == "" {
		showUsage = true
	}

	if hasCommand && command == "scan" && args["folder"] == "" {
		showUsage = true
	}

	if showUsage {
		utils.PrintUsage()
		os.Exit(1)
	}

	switch command {
	case "find":
		handleFindCommand(args, debugMode)
	case "scan":
		handleScanCommand(args, debugMode)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		utils.PrintUsage()
		os.Exit(1)
	}
}

// parseHashingFlags resolves the hasher and hash size flags shared by
// both commands.
func parseHashingFlags(args map[string]string) (hashing.Hasher, int) {
	hasherName := "phash"
	if name, ok := args["hasher"]; ok && name != "" {
		hasherName = name
	}
	hasher, err := hashing.HasherForName(hasherName)
	if err != nil {
		log.Fatalf("%v", err)
	}

	hashSize := hashing.DefaultHashSize
	if sizeStr, ok := args["hash-size"]; ok && sizeStr != "" {
		hashSize, err = utils.ParseHashSize(sizeStr)
		if err != nil {
			log.Fatalf("%v", err)
		}
	}

	return hasher, hashSize
}

func handleFindCommand(args map[string]string, debugMode bool) {
	imagePath := args["path"]

	// Verify folder path exists and is accessible
	folderInfo, err := os.Stat(imagePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Fatalf("Image folder does not exist: %s", imagePath)
		} else {
			log.Fatalf("Cannot access image folder: %s (%v)", imagePath, err)
		}
	}
	if !folderInfo.IsDir() {
		log.Fatalf("Path is not a directory: %s", imagePath)
	}

	testPath := args["test-path"]
	if testPath != "" {
		if info, err := os.Stat(testPath); err != nil || !info.IsDir() {
			log.Fatalf("Test image folder is not an accessible directory: %s", testPath)
		}
	}

	sensitivity := float64(utils.DefaultSensitivity)
	if s, ok := args["sensitivity"]; ok {
		sensitivity, err = utils.ParseSensitivity(s)
		if err != nil {
			log.Fatalf("%v", err)
		}
	}

	hasher, hashSize := parseHashingFlags(args)

	maxWorkers := 0
	if w, ok := args["workers"]; ok {
		maxWorkers, _ = strconv.Atoi(w)
	}

	startTime := time.Now()

	matches, stats, err := scanner.FindSimilarImages(scanner.Options{
		ExistingPath: imagePath,
		NewPath:      testPath,
		Sensitivity:  sensitivity,
		HashSize:     hashSize,
		Hasher:       hasher,
		MaxWorkers:   maxWorkers,
		DebugMode:    debugMode,
		CachePath:    args["cache"],
	})
	if err != nil {
		log.Fatalf("Error finding similar images: %v", err)
	}

	pairs := matcher.Pairs(matches)

	if len(pairs) > 0 {
		fmt.Println("The following similar pairs were found:")
		for _, pair := range pairs {
			fmt.Printf("(*) %s ==~ %s\n", pair.Left, pair.Right)
		}
	} else {
		fmt.Println("No similar pairs were found")
	}

	// Write reports only when there is something to show, matching the
	// console output above.
	if htmlArg, ok := args["html"]; ok && len(pairs) > 0 {
		htmlPath := report.DefaultHTMLReportFile
		if htmlArg != "true" && htmlArg != "" {
			htmlPath = htmlArg
		}
		if err := report.SaveHTML(htmlPath, pairs); err != nil {
			log.Fatalf("Error writing HTML report: %v", err)
		}
		fmt.Printf("HTML report saved to: %s\n", htmlPath)
	}

	if jsonPath, ok := args["json"]; ok && jsonPath != "" && jsonPath != "true" {
		if err := report.SaveJSON(jsonPath, pairs); err != nil {
			log.Fatalf("Error writing JSON report: %v", err)
		}
		fmt.Printf("JSON report saved to: %s\n", jsonPath)
	}

	duration := time.Since(startTime)
	fmt.Printf("\nProcessed %d images in %v", stats.Processed, duration.Round(time.Millisecond))
	if stats.CacheHits > 0 {
		fmt.Printf(" (%d from cache)", stats.CacheHits)
	}
	fmt.Println()

	if stats.DecodeErrors > 0 || stats.HashErrors > 0 {
		fmt.Printf("Skipped %d files that could not be decoded and %d that could not be hashed.\n",
			stats.DecodeErrors, stats.HashErrors)
		if debugMode {
			fmt.Println("Check the log file for details.")
		}
	}
}

func handleScanCommand(args map[string]string, debugMode bool) {
	folderPath := args["folder"]

	folderInfo, err := os.Stat(folderPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Fatalf("Folder path does not exist: %s", folderPath)
		} else {
			log.Fatalf("Cannot access folder path: %s (%v)", folderPath, err)
		}
	}
	if !folderInfo.IsDir() {
		log.Fatalf("Path is not a directory: %s", folderPath)
	}

	cachePath := utils.GetDefaultCachePath()
	if custom, ok := args["cache"]; ok && custom != "" {
		cachePath = custom
	}

	hasher, hashSize := parseHashingFlags(args)

	maxWorkers := 0
	if w, ok := args["workers"]; ok {
		maxWorkers, _ = strconv.Atoi(w)
	}

	_, forceRefresh := args["force"]

	startTime := time.Now()

	fmt.Printf("Fingerprinting %s into cache %s...\n", folderPath, cachePath)

	stats, err := scanner.WarmCache(folderPath, cachePath, hashSize, hasher, maxWorkers, forceRefresh, false)
	if err != nil {
		log.Fatalf("Error scanning folder: %v", err)
	}

	duration := time.Since(startTime)
	fmt.Printf("\nScan completed successfully!\n")
	fmt.Printf("Processed %d images in %v (%d from cache, %d errors)\n",
		stats.Processed, duration.Round(time.Millisecond), stats.CacheHits,
		stats.DecodeErrors+stats.HashErrors)

	// Print summary statistics if available
	db, err := database.InitCache(cachePath)
	if err == nil {
		defer db.Close()
		if cacheStats, err := database.GetCacheStats(db, hasher.Name()); err == nil {
			fmt.Printf("\nSummary:\n")
			fmt.Printf("- Cached fingerprints: %d\n", cacheStats.TotalFingerprints)
			fmt.Printf("- Unique hashes: %d\n", cacheStats.UniqueHashes)
		}
	}
}
