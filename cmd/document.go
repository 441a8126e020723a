package cmd

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	v1 "github.com/emrgen/notion/apis/v1"
)

const timeFormat = "2006-01-02 15:04:05"

func init() {
	rootCmd.AddCommand(createDocCmd())
	rootCmd.AddCommand(getDocCmd())
	rootCmd.AddCommand(listDocCmd())
	rootCmd.AddCommand(updateDocCmd())
	rootCmd.AddCommand(archiveDocCmd())
	rootCmd.AddCommand(cascadeCmd())
	rootCmd.AddCommand(trashCmd())
	rootCmd.AddCommand(restoreDocCmd())
	rootCmd.AddCommand(deleteDocCmd())
	rootCmd.AddCommand(searchDocCmd())

	rootCmd.AddCommand(coverCmd)
	coverCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	coverCmd.AddCommand(uploadCoverCmd())
	coverCmd.AddCommand(removeCoverCmd())
}

var coverCmd = &cobra.Command{
	Use:   "cover",
	Short: "cover image commands",
}

func createDocCmd() *cobra.Command {
	var parentID string
	var docTitle string

	command := &cobra.Command{
		Use:     "create",
		Short:   "create a document",
		Long:    `create a document at the root of the sidebar or under the given parent`,
		Example: "doc create -t <title> -p <parent-id>",
		Run: func(cmd *cobra.Command, args []string) {
			client, err := newClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			req := &v1.CreateDocumentRequest{
				Title: docTitle,
			}
			if parentID != "" {
				req.ParentId = &parentID
			}

			res, err := client.CreateDocument(tokenContext(), req)
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("document created with id: %s", res.Document.Id)
		},
	}

	bindContextFlags(command)
	command.Flags().StringVarP(&docTitle, "title", "t", "", "title of the document")
	command.Flags().StringVarP(&parentID, "parent-id", "p", "", "parent document id")
	command.Flags().SortFlags = false

	return command
}

func getDocCmd() *cobra.Command {
	var docID string
	var showContent bool

	var required = []string{"doc-id"}

	command := &cobra.Command{
		Use:     "get",
		Short:   "get a document",
		Example: "doc get -d <doc-id> -c",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, err := newClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			res, err := client.GetDocument(tokenContext(), &v1.GetDocumentRequest{DocumentId: docID})
			if err != nil {
				logrus.Error(err)
				return
			}

			doc := res.Document
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Title", "Parent", "Icon", "Archived", "Published", "Updated At"})
			table.Append([]string{doc.Id, doc.Title, doc.GetParentId(), deref(doc.Icon), strconv.FormatBool(doc.IsArchived), strconv.FormatBool(doc.IsPublished), doc.UpdatedAt.Format(timeFormat)})
			table.Render()

			if doc.CoverImageUrl != nil {
				fmt.Printf("cover: %s\n", *doc.CoverImageUrl)
			}
			if showContent {
				fmt.Println(doc.Content)
			}
		},
	}

	bindContextFlags(command)
	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().BoolVarP(&showContent, "content", "c", false, "print the document content")
	command.Flags().SortFlags = false

	return command
}

func listDocCmd() *cobra.Command {
	var parentID string
	var watch bool

	command := &cobra.Command{
		Use:     "list",
		Short:   "list the sidebar documents",
		Long:    `list the active documents at the root of the sidebar or under the given parent`,
		Example: "doc list -p <parent-id> -w",
		Run: func(cmd *cobra.Command, args []string) {
			client, err := newClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			req := &v1.ListSidebarDocumentsRequest{}
			if parentID != "" {
				req.ParentId = &parentID
			}

			if !watch {
				res, err := client.ListSidebarDocuments(tokenContext(), req)
				if err != nil {
					logrus.Error(err)
					return
				}
				printDocuments(res.Documents)
				return
			}

			stream, err := client.WatchSidebarDocuments(tokenContext(), req)
			if err != nil {
				logrus.Error(err)
				return
			}
			for {
				res, err := stream.Recv()
				if errors.Is(err, io.EOF) {
					return
				}
				if err != nil {
					logrus.Error(err)
					return
				}
				printDocuments(res.Documents)
			}
		},
	}

	bindContextFlags(command)
	command.Flags().StringVarP(&parentID, "parent-id", "p", "", "parent document id")
	command.Flags().BoolVarP(&watch, "watch", "w", false, "keep listening for sidebar changes")
	command.Flags().SortFlags = false

	return command
}

func updateDocCmd() *cobra.Command {
	var docID string
	var docTitle string
	var content string
	var icon string
	var coverURL string
	var publish bool
	var unpublish bool
	var clearIcon bool

	var required = []string{"doc-id"}

	command := &cobra.Command{
		Use:   "update",
		Short: "update a document",
		Long: `Update a document with the given id.

Only the provided fields are changed. An empty --icon or --cover-url clears the field.`,
		Example: "doc update -d <doc-id> -t <title> -c <content> --publish",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}
			if publish && unpublish {
				color.Red("use only one of: --publish --unpublish")
				return
			}

			client, err := newClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			ctx := tokenContext()
			if clearIcon {
				res, err := client.RemoveIcon(ctx, &v1.RemoveIconRequest{DocumentId: docID})
				if err != nil {
					logrus.Error(err)
					return
				}
				printDocuments([]*v1.Document{res.Document})
				return
			}

			req := &v1.UpdateDocumentRequest{DocumentId: docID}
			if cmd.Flag("title").Changed {
				req.Title = &docTitle
			}
			if cmd.Flag("content").Changed {
				req.Content = &content
			}
			if cmd.Flag("icon").Changed {
				req.Icon = &icon
			}
			if cmd.Flag("cover-url").Changed {
				req.CoverImageUrl = &coverURL
			}
			if publish || unpublish {
				req.IsPublished = &publish
			}

			res, err := client.UpdateDocument(ctx, req)
			if err != nil {
				logrus.Error(err)
				return
			}

			printDocuments([]*v1.Document{res.Document})
		},
	}

	bindContextFlags(command)
	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().StringVarP(&docTitle, "title", "t", "", "title")
	command.Flags().StringVarP(&content, "content", "c", "", "content")
	command.Flags().StringVarP(&icon, "icon", "i", "", "icon")
	command.Flags().StringVar(&coverURL, "cover-url", "", "cover image url")
	command.Flags().BoolVar(&publish, "publish", false, "publish the document")
	command.Flags().BoolVar(&unpublish, "unpublish", false, "unpublish the document")
	command.Flags().BoolVar(&clearIcon, "remove-icon", false, "remove the icon")
	command.Flags().SortFlags = false

	return command
}

func archiveDocCmd() *cobra.Command {
	var docID string
	var wait bool

	var required = []string{"doc-id"}

	command := &cobra.Command{
		Use:     "archive",
		Short:   "move a document and its subtree to the trash",
		Example: "doc archive -d <doc-id> --wait",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, err := newClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			res, err := client.ArchiveDocument(tokenContext(), &v1.ArchiveDocumentRequest{DocumentId: docID, Wait: wait})
			if err != nil {
				logrus.Error(err)
				return
			}

			printCascade(res.Cascade)
			if !wait {
				color.Magenta("descendants are archived in the background, check: doc cascade -i %s\n", res.Cascade.Id)
			}
		},
	}

	bindContextFlags(command)
	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().BoolVarP(&wait, "wait", "w", false, "wait for the subtree to be archived")
	command.Flags().SortFlags = false

	return command
}

func cascadeCmd() *cobra.Command {
	var cascadeID string

	var required = []string{"cascade-id"}

	command := &cobra.Command{
		Use:     "cascade",
		Short:   "show the progress of an archive cascade",
		Example: "doc cascade -i <cascade-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, err := newClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			res, err := client.GetCascade(tokenContext(), &v1.GetCascadeRequest{CascadeId: cascadeID})
			if err != nil {
				logrus.Error(err)
				return
			}

			printCascade(res.Cascade)
		},
	}

	bindContextFlags(command)
	command.Flags().StringVarP(&cascadeID, "cascade-id", "i", "", "cascade id (required)")

	return command
}

func trashCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "trash",
		Short: "list the archived documents",
		Run: func(cmd *cobra.Command, args []string) {
			client, err := newClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			res, err := client.ListTrashDocuments(tokenContext(), &v1.ListTrashDocumentsRequest{})
			if err != nil {
				logrus.Error(err)
				return
			}

			printDocuments(res.Documents)
		},
	}

	bindContextFlags(command)

	return command
}

func restoreDocCmd() *cobra.Command {
	var docID string

	var required = []string{"doc-id"}

	command := &cobra.Command{
		Use:     "restore",
		Short:   "restore an archived document",
		Long:    `restore an archived document, moving it to the root when its parent is archived or gone`,
		Example: "doc restore -d <doc-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, err := newClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			res, err := client.RestoreDocument(tokenContext(), &v1.RestoreDocumentRequest{DocumentId: docID})
			if err != nil {
				logrus.Error(err)
				return
			}

			printDocuments([]*v1.Document{res.Document})
		},
	}

	bindContextFlags(command)
	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")

	return command
}

func deleteDocCmd() *cobra.Command {
	var docID string

	var required = []string{"doc-id"}

	command := &cobra.Command{
		Use:     "delete",
		Short:   "permanently delete a document",
		Example: "doc delete -d <doc-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, err := newClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			res, err := client.DeleteDocument(tokenContext(), &v1.DeleteDocumentRequest{DocumentId: docID})
			if err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("document deleted: %s", res.Document.Id)
		},
	}

	bindContextFlags(command)
	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")

	return command
}

func searchDocCmd() *cobra.Command {
	var query string
	var limit int32

	command := &cobra.Command{
		Use:     "search",
		Short:   "search the active documents by title",
		Example: "doc search -q <query> -l 10",
		Run: func(cmd *cobra.Command, args []string) {
			client, err := newClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			res, err := client.SearchDocuments(tokenContext(), &v1.SearchDocumentsRequest{Query: query, Limit: limit})
			if err != nil {
				logrus.Error(err)
				return
			}

			printDocuments(res.Documents)
		},
	}

	bindContextFlags(command)
	command.Flags().StringVarP(&query, "query", "q", "", "title query")
	command.Flags().Int32VarP(&limit, "limit", "l", 0, "maximum number of results")
	command.Flags().SortFlags = false

	return command
}

func uploadCoverCmd() *cobra.Command {
	var docID string
	var file string

	var required = []string{"doc-id", "file"}

	command := &cobra.Command{
		Use:     "upload",
		Short:   "upload a cover image",
		Example: "doc cover upload -d <doc-id> -f ./cover.png",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			data, err := os.ReadFile(file)
			if err != nil {
				logrus.Error(err)
				return
			}

			client, err := newClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			res, err := client.UploadCoverImage(tokenContext(), &v1.UploadCoverImageRequest{
				DocumentId:  docID,
				FileName:    filepath.Base(file),
				ContentType: http.DetectContentType(data),
				Data:        data,
			})
			if err != nil {
				logrus.Error(err)
				return
			}

			fmt.Printf("cover: %s\n", deref(res.Document.CoverImageUrl))
		},
	}

	bindContextFlags(command)
	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")
	command.Flags().StringVarP(&file, "file", "f", "", "image file (required)")
	command.Flags().SortFlags = false

	return command
}

func removeCoverCmd() *cobra.Command {
	var docID string

	var required = []string{"doc-id"}

	command := &cobra.Command{
		Use:     "remove",
		Short:   "remove the cover image",
		Example: "doc cover remove -d <doc-id>",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client, err := newClient()
			if err != nil {
				logrus.Error(err)
				return
			}
			defer client.Close()

			res, err := client.RemoveCoverImage(tokenContext(), &v1.RemoveCoverImageRequest{DocumentId: docID})
			if err != nil {
				logrus.Error(err)
				return
			}

			printDocuments([]*v1.Document{res.Document})
		},
	}

	bindContextFlags(command)
	command.Flags().StringVarP(&docID, "doc-id", "d", "", "document id (required)")

	return command
}

func printDocuments(docs []*v1.Document) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Title", "Parent", "Archived", "Published", "Updated At"})
	for _, doc := range docs {
		table.Append([]string{doc.Id, doc.Title, doc.GetParentId(), strconv.FormatBool(doc.IsArchived), strconv.FormatBool(doc.IsPublished), doc.UpdatedAt.Format(timeFormat)})
	}
	table.Render()
}

func printCascade(cascade *v1.Cascade) {
	if cascade == nil {
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Cascade", "Root", "State", "Visited", "Archived"})
	table.Append([]string{cascade.Id, cascade.RootId, string(cascade.State), strconv.Itoa(int(cascade.Visited)), strconv.Itoa(int(cascade.Archived))})
	table.Render()

	for _, failure := range cascade.Failures {
		color.Red("failed: %s: %s\n", failure.DocumentId, failure.Error)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func checkMissingFlags(cmd *cobra.Command, flags []string) bool {
	var missingFlags []string
	var providedFlags []string
	for _, required := range flags {
		if !cmd.Flag(required).Changed {
			missingFlags = append(missingFlags, required)
		} else {
			value := cmd.Flag(required).Value.String()
			providedFlags = append(providedFlags, fmt.Sprintf("--%s=%s", required, value))
		}
	}

	if len(missingFlags) > 0 {
		var msg string
		for _, f := range missingFlags {
			msg += fmt.Sprintf("--%s ", f)
		}

		color.Red("missing: %s\n", msg)
		if len(providedFlags) > 0 {
			provided := strings.Join(providedFlags, " ")
			color.Green("provide: %s\n", provided)
		}

		cmd.Println("")

		_ = cmd.Usage()

		return true
	}

	return false
}
