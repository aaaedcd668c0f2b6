package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/ops"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "  ops backup <dataDir> [archivePath]")
	fmt.Fprintln(os.Stderr, "  ops restore <archivePath> <dataDir>")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "backup":
		if len(os.Args) < 3 {
			usage()
		}
		dataDir := os.Args[2]
		archive := fmt.Sprintf("backups/gymbro_%s.tar.gz", time.Now().UTC().Format("20060102T150405Z"))
		if len(os.Args) > 3 {
			archive = os.Args[3]
		}
		if err := ops.BackupDataDir(dataDir, archive); err != nil {
			log.Fatalf("backup: %v", err)
		}
		fmt.Println(archive)

	case "restore":
		if len(os.Args) < 4 {
			usage()
		}
		if err := ops.RestoreDataDir(os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("restore: %v", err)
		}

	default:
		usage()
	}
}
