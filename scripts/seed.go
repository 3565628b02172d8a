package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"

	"notas/internal/store/sqlstore"

	"golang.org/x/crypto/bcrypt"
)

var sampleNotes = []string{
	"Buy groceries for the week",
	"Call the dentist to reschedule",
	"Finish reading chapter 4",
	"Ideas for the weekend trip",
	"Draft for the blog post",
	"Remember to water the plants",
	"Meeting notes from Monday",
	"Book recommendations from Ana",
	"Recipe: lentil soup",
	"Passwords are in the usual place",
	"Gift ideas for mom's birthday",
	"Gym schedule for next month",
}

func main() {
	dbConn := os.Getenv("DB_CONN")
	if dbConn == "" {
		dbConn = "./notas.db"
	}

	st, err := sqlstore.New("sqlite3", dbConn)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	userID, err := st.CreateUser("demo", string(hash))
	if err != nil {
		log.Fatalf("Could not create demo user: %v", err)
	}
	fmt.Printf("Created demo user with ID %d (password: demo1234)\n", userID)

	numNotes := rand.Intn(5) + 5
	inserted := 0
	for i := 0; i < numNotes; i++ {
		content := sampleNotes[rand.Intn(len(sampleNotes))]
		if _, err := st.CreateNote(userID, content); err != nil {
			log.Printf("Error inserting note: %v", err)
			continue
		}
		inserted++
	}

	fmt.Printf("Inserted %d notes for user %d\n", inserted, userID)
}
