package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"gitlab.com/dirk.krummacker/aim-summit-service/internal/config"
	"gitlab.com/dirk.krummacker/aim-summit-service/internal/sqlstore"
)

// Usage example on the command line:
// > AIM_DB_HOST=localhost:3306 AIM_DB_USER=aim AIM_DB_PWD=secret go run main.go -file=../../scripts/database.sql
func main() {
	filePtr := flag.String("file", "database.sql", "the sql file to execute")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("could not load configuration", err)
		panic(err)
	}
	db, err := sqlstore.Open(sqlstore.DSNConfig{
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Host:     cfg.DBHost,
		Database: cfg.DBName,
	})
	if err != nil {
		panic(err)
	}
	defer db.Close()

	readFile, err := os.Open(*filePtr) // nosemgrep
	if err != nil {
		panic(err)
	}
	defer readFile.Close()

	fileScanner := bufio.NewScanner(readFile)
	fileScanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	statements := 0
	for fileScanner.Scan() {
		line := fileScanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			db.MustExec(builder.String())
			statements++
			builder = strings.Builder{}
		}
	}
	if err := fileScanner.Err(); err != nil {
		panic(err)
	}
	fmt.Printf("executed %d statements from %s", statements, *filePtr)
	fmt.Println()
}
