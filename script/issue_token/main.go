package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/lesiontracker/tracker-server/config"
	"github.com/lesiontracker/tracker-server/lib"
)

func main() {
	config.SetupAll()

	// コマンドライン引数
	flag.Parse()
	args := flag.Args()

	if len(args) != 1 {
		log.Fatal("usage: go run main.go [subject]")
	}

	token, err := lib.CreateToken(args[0])
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	fmt.Println(token)
}
