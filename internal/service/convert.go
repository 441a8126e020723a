package service

import (
	v1 "github.com/emrgen/notion/apis/v1"
	"github.com/emrgen/notion/internal/cascade"
	"github.com/emrgen/notion/internal/compress"
	"github.com/emrgen/notion/internal/model"
)

// documentProto converts doc to its api form. Content is decoded only when withContent is set.
func documentProto(doc *model.Document, withContent bool) (*v1.Document, error) {
	out := &v1.Document{
		Id:            doc.ID,
		Title:         doc.Title,
		ParentId:      doc.ParentID,
		OwnerId:       doc.OwnerID,
		CoverImageUrl: doc.CoverImageURL,
		Icon:          doc.Icon,
		IsArchived:    doc.IsArchived,
		IsPublished:   doc.IsPublished,
		CreationTime:  doc.CreationTime,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}

	if withContent && len(doc.Content) > 0 {
		codec, err := compress.Lookup(doc.Compression)
		if err != nil {
			return nil, err
		}
		content, err := codec.Decode(doc.Content)
		if err != nil {
			return nil, err
		}
		out.Content = string(content)
	}

	return out, nil
}

func documentsProto(docs []*model.Document) ([]*v1.Document, error) {
	out := make([]*v1.Document, 0, len(docs))
	for _, doc := range docs {
		d, err := documentProto(doc, false)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}

	return out, nil
}

func cascadeProto(report *cascade.Report) *v1.Cascade {
	out := &v1.Cascade{
		Id:       report.ID.String(),
		RootId:   report.RootID.String(),
		State:    v1.CascadeState(report.State),
		Visited:  int32(report.Visited),
		Archived: int32(report.Archived),
	}
	for _, f := range report.Failures {
		out.Failures = append(out.Failures, &v1.CascadeFailure{
			DocumentId: f.DocumentID.String(),
			Error:      f.Err.Error(),
		})
	}

	return out
}
