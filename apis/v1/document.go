package v1

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	maxTitleLength     = 1024
	maxCoverImageBytes = 8 << 20
)

// CascadeState is the lifecycle state of an archive cascade.
type CascadeState string

const (
	CascadeState_RUNNING   CascadeState = "RUNNING"
	CascadeState_COMPLETED CascadeState = "COMPLETED"
	CascadeState_FAILED    CascadeState = "FAILED"
)

type Document struct {
	Id            string    `json:"id"`
	Title         string    `json:"title"`
	ParentId      *string   `json:"parent_id,omitempty"`
	OwnerId       string    `json:"owner_id"`
	Content       string    `json:"content,omitempty"`
	CoverImageUrl *string   `json:"cover_image_url,omitempty"`
	Icon          *string   `json:"icon,omitempty"`
	IsArchived    bool      `json:"is_archived"`
	IsPublished   bool      `json:"is_published"`
	CreationTime  int64     `json:"creation_time"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (d *Document) GetId() string {
	if d == nil {
		return ""
	}
	return d.Id
}

func (d *Document) GetParentId() string {
	if d == nil || d.ParentId == nil {
		return ""
	}
	return *d.ParentId
}

type CascadeFailure struct {
	DocumentId string `json:"document_id"`
	Error      string `json:"error"`
}

type Cascade struct {
	Id       string            `json:"id"`
	RootId   string            `json:"root_id"`
	State    CascadeState      `json:"state"`
	Visited  int32             `json:"visited"`
	Archived int32             `json:"archived"`
	Failures []*CascadeFailure `json:"failures,omitempty"`
}

type CreateDocumentRequest struct {
	Title    string  `json:"title"`
	ParentId *string `json:"parent_id,omitempty"`
}

func (r *CreateDocumentRequest) GetTitle() string {
	if r == nil {
		return ""
	}
	return r.Title
}

func (r *CreateDocumentRequest) GetParentId() string {
	if r == nil || r.ParentId == nil {
		return ""
	}
	return *r.ParentId
}

func (r *CreateDocumentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Length(0, maxTitleLength)),
		validation.Field(&r.ParentId, validation.NilOrNotEmpty, is.UUID),
	)
}

type CreateDocumentResponse struct {
	Document *Document `json:"document"`
}

type GetDocumentRequest struct {
	DocumentId string `json:"document_id"`
}

func (r *GetDocumentRequest) GetDocumentId() string {
	if r == nil {
		return ""
	}
	return r.DocumentId
}

func (r *GetDocumentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DocumentId, validation.Required, is.UUID),
	)
}

type GetDocumentResponse struct {
	Document *Document `json:"document"`
}

type ListSidebarDocumentsRequest struct {
	ParentId *string `json:"parent_id,omitempty"`
}

func (r *ListSidebarDocumentsRequest) GetParentId() string {
	if r == nil || r.ParentId == nil {
		return ""
	}
	return *r.ParentId
}

func (r *ListSidebarDocumentsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ParentId, validation.NilOrNotEmpty, is.UUID),
	)
}

type ListSidebarDocumentsResponse struct {
	Documents []*Document `json:"documents"`
}

type ArchiveDocumentRequest struct {
	DocumentId string `json:"document_id"`
	// Wait blocks until the cascade over the subtree settles.
	Wait bool `json:"wait,omitempty"`
}

func (r *ArchiveDocumentRequest) GetDocumentId() string {
	if r == nil {
		return ""
	}
	return r.DocumentId
}

func (r *ArchiveDocumentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DocumentId, validation.Required, is.UUID),
	)
}

type ArchiveDocumentResponse struct {
	Document *Document `json:"document"`
	Cascade  *Cascade  `json:"cascade"`
}

type RestoreDocumentRequest struct {
	DocumentId string `json:"document_id"`
}

func (r *RestoreDocumentRequest) GetDocumentId() string {
	if r == nil {
		return ""
	}
	return r.DocumentId
}

func (r *RestoreDocumentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DocumentId, validation.Required, is.UUID),
	)
}

type RestoreDocumentResponse struct {
	Document *Document `json:"document"`
}

type DeleteDocumentRequest struct {
	DocumentId string `json:"document_id"`
}

func (r *DeleteDocumentRequest) GetDocumentId() string {
	if r == nil {
		return ""
	}
	return r.DocumentId
}

func (r *DeleteDocumentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DocumentId, validation.Required, is.UUID),
	)
}

type DeleteDocumentResponse struct {
	Document *Document `json:"document"`
}

type ListTrashDocumentsRequest struct{}

type ListTrashDocumentsResponse struct {
	Documents []*Document `json:"documents"`
}

// UpdateDocumentRequest patches the fields that are set.
type UpdateDocumentRequest struct {
	DocumentId    string  `json:"document_id"`
	Title         *string `json:"title,omitempty"`
	Content       *string `json:"content,omitempty"`
	Icon          *string `json:"icon,omitempty"`
	CoverImageUrl *string `json:"cover_image_url,omitempty"`
	IsPublished   *bool   `json:"is_published,omitempty"`
}

func (r *UpdateDocumentRequest) GetDocumentId() string {
	if r == nil {
		return ""
	}
	return r.DocumentId
}

func (r *UpdateDocumentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DocumentId, validation.Required, is.UUID),
		validation.Field(&r.Title, validation.Length(0, maxTitleLength)),
		validation.Field(&r.CoverImageUrl, is.URL),
	)
}

type UpdateDocumentResponse struct {
	Document *Document `json:"document"`
}

type SearchDocumentsRequest struct {
	Query string `json:"query,omitempty"`
	Limit int32  `json:"limit,omitempty"`
}

func (r *SearchDocumentsRequest) GetQuery() string {
	if r == nil {
		return ""
	}
	return r.Query
}

func (r *SearchDocumentsRequest) GetLimit() int32 {
	if r == nil {
		return 0
	}
	return r.Limit
}

func (r *SearchDocumentsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Limit, validation.Min(int32(0)), validation.Max(int32(500))),
	)
}

type SearchDocumentsResponse struct {
	Documents []*Document `json:"documents"`
}

type RemoveIconRequest struct {
	DocumentId string `json:"document_id"`
}

func (r *RemoveIconRequest) GetDocumentId() string {
	if r == nil {
		return ""
	}
	return r.DocumentId
}

func (r *RemoveIconRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DocumentId, validation.Required, is.UUID),
	)
}

type RemoveIconResponse struct {
	Document *Document `json:"document"`
}

type RemoveCoverImageRequest struct {
	DocumentId string `json:"document_id"`
}

func (r *RemoveCoverImageRequest) GetDocumentId() string {
	if r == nil {
		return ""
	}
	return r.DocumentId
}

func (r *RemoveCoverImageRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DocumentId, validation.Required, is.UUID),
	)
}

type RemoveCoverImageResponse struct {
	Document *Document `json:"document"`
}

type UploadCoverImageRequest struct {
	DocumentId  string `json:"document_id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type,omitempty"`
	Data        []byte `json:"data"`
}

func (r *UploadCoverImageRequest) GetDocumentId() string {
	if r == nil {
		return ""
	}
	return r.DocumentId
}

func (r *UploadCoverImageRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DocumentId, validation.Required, is.UUID),
		validation.Field(&r.FileName, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Data, validation.Required, validation.Length(1, maxCoverImageBytes)),
	)
}

type UploadCoverImageResponse struct {
	Document *Document `json:"document"`
}

type GetCascadeRequest struct {
	CascadeId string `json:"cascade_id"`
}

func (r *GetCascadeRequest) GetCascadeId() string {
	if r == nil {
		return ""
	}
	return r.CascadeId
}

func (r *GetCascadeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CascadeId, validation.Required, is.UUID),
	)
}

type GetCascadeResponse struct {
	Cascade *Cascade `json:"cascade"`
}
