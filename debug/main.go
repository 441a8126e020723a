package main

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/emrgen/notion"
	v1 "github.com/emrgen/notion/apis/v1"
	"github.com/emrgen/notion/internal/auth"
)

// builds a small tree against a running server and archives it, printing the cascade report
func main() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logrus.Fatal("JWT_SECRET is required")
	}

	token, err := auth.IssueToken([]byte(secret), "debug-user", time.Hour)
	if err != nil {
		logrus.Fatal(err)
	}

	client, err := notion.NewClient(os.Getenv("DOCUMENT_ADDRESS"))
	if err != nil {
		logrus.Fatal(err)
	}
	defer client.Close()

	ctx := auth.OutgoingContext(context.Background(), token)

	root, err := client.CreateDocument(ctx, &v1.CreateDocumentRequest{Title: "debug root"})
	if err != nil {
		logrus.Fatal(err)
	}

	parents := []string{root.Document.Id}
	for depth := 0; depth < 3; depth++ {
		var next []string
		for _, parent := range parents {
			for i := 0; i < 2; i++ {
				res, err := client.CreateDocument(ctx, &v1.CreateDocumentRequest{ParentId: &parent})
				if err != nil {
					logrus.Fatal(err)
				}
				next = append(next, res.Document.Id)
			}
		}
		parents = next
	}

	res, err := client.ArchiveDocument(ctx, &v1.ArchiveDocumentRequest{DocumentId: root.Document.Id, Wait: true})
	if err != nil {
		logrus.Fatal(err)
	}

	logrus.Infof("cascade %s: %s visited=%d archived=%d failures=%d",
		res.Cascade.Id, res.Cascade.State, res.Cascade.Visited, res.Cascade.Archived, len(res.Cascade.Failures))
}
