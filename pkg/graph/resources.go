package graph

// Actor represents the "from" attribution on posts, comments, and photos.
type Actor struct {
	ID       string `json:"id"                 yaml:"id"`
	Name     string `json:"name"               yaml:"name"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// User represents a user node.
type User struct {
	ID          string  `json:"id"                   yaml:"id"`
	Name        string  `json:"name,omitempty"       yaml:"name,omitempty"`
	FirstName   string  `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	LastName    string  `json:"last_name,omitempty"  yaml:"last_name,omitempty"`
	Email       string  `json:"email,omitempty"      yaml:"email,omitempty"`
	Link        string  `json:"link,omitempty"       yaml:"link,omitempty"`
	Gender      string  `json:"gender,omitempty"     yaml:"gender,omitempty"`
	Locale      string  `json:"locale,omitempty"     yaml:"locale,omitempty"`
	Timezone    float64 `json:"timezone,omitempty"   yaml:"timezone,omitempty"`
	Verified    *bool   `json:"verified,omitempty"   yaml:"verified,omitempty"`
	UpdatedTime Time    `json:"updated_time"         yaml:"updated_time"`
}

// Page represents a page node.
type Page struct {
	ID       string    `json:"id"                 yaml:"id"`
	Name     string    `json:"name,omitempty"     yaml:"name,omitempty"`
	Category string    `json:"category,omitempty" yaml:"category,omitempty"`
	About    string    `json:"about,omitempty"    yaml:"about,omitempty"`
	Link     string    `json:"link,omitempty"     yaml:"link,omitempty"`
	Website  string    `json:"website,omitempty"  yaml:"website,omitempty"`
	Phone    string    `json:"phone,omitempty"    yaml:"phone,omitempty"`
	Likes    int64     `json:"likes,omitempty"    yaml:"likes,omitempty"`
	Location *Location `json:"location,omitempty" yaml:"location,omitempty"`
}

// Location represents a place attached to a page.
type Location struct {
	Street    string  `json:"street,omitempty"    yaml:"street,omitempty"`
	City      string  `json:"city,omitempty"      yaml:"city,omitempty"`
	State     string  `json:"state,omitempty"     yaml:"state,omitempty"`
	Country   string  `json:"country,omitempty"   yaml:"country,omitempty"`
	Zip       string  `json:"zip,omitempty"       yaml:"zip,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"  yaml:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`
}

// Post represents a post node on a feed or wall.
type Post struct {
	ID          string `json:"id"                    yaml:"id"`
	From        *Actor `json:"from,omitempty"        yaml:"from,omitempty"`
	Message     string `json:"message,omitempty"     yaml:"message,omitempty"`
	Story       string `json:"story,omitempty"       yaml:"story,omitempty"`
	Picture     string `json:"picture,omitempty"     yaml:"picture,omitempty"`
	Link        string `json:"link,omitempty"        yaml:"link,omitempty"`
	Name        string `json:"name,omitempty"        yaml:"name,omitempty"`
	Caption     string `json:"caption,omitempty"     yaml:"caption,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string `json:"type,omitempty"        yaml:"type,omitempty"`
	StatusType  string `json:"status_type,omitempty" yaml:"status_type,omitempty"`
	ObjectID    string `json:"object_id,omitempty"   yaml:"object_id,omitempty"`
	CreatedTime Time   `json:"created_time"          yaml:"created_time"`
	UpdatedTime Time   `json:"updated_time"          yaml:"updated_time"`
}

// Comment represents a comment node.
type Comment struct {
	ID          string `json:"id"                   yaml:"id"`
	From        *Actor `json:"from,omitempty"       yaml:"from,omitempty"`
	Message     string `json:"message,omitempty"    yaml:"message,omitempty"`
	LikeCount   int64  `json:"like_count,omitempty" yaml:"like_count,omitempty"`
	CanRemove   bool   `json:"can_remove,omitempty" yaml:"can_remove,omitempty"`
	UserLikes   bool   `json:"user_likes,omitempty" yaml:"user_likes,omitempty"`
	CreatedTime Time   `json:"created_time"         yaml:"created_time"`
}

// Photo represents a photo node.
type Photo struct {
	ID          string       `json:"id"                yaml:"id"`
	From        *Actor       `json:"from,omitempty"    yaml:"from,omitempty"`
	Name        string       `json:"name,omitempty"    yaml:"name,omitempty"`
	Picture     string       `json:"picture,omitempty" yaml:"picture,omitempty"`
	Source      string       `json:"source,omitempty"  yaml:"source,omitempty"`
	Height      int          `json:"height,omitempty"  yaml:"height,omitempty"`
	Width       int          `json:"width,omitempty"   yaml:"width,omitempty"`
	Link        string       `json:"link,omitempty"    yaml:"link,omitempty"`
	Images      []PhotoImage `json:"images,omitempty"  yaml:"images,omitempty"`
	CreatedTime Time         `json:"created_time"      yaml:"created_time"`
	UpdatedTime Time         `json:"updated_time"      yaml:"updated_time"`
}

// PhotoImage represents one rendition of a photo.
type PhotoImage struct {
	Height int    `json:"height" yaml:"height"`
	Width  int    `json:"width"  yaml:"width"`
	Source string `json:"source" yaml:"source"`
}

// Album represents a photo album node.
type Album struct {
	ID          string `json:"id"                    yaml:"id"`
	From        *Actor `json:"from,omitempty"        yaml:"from,omitempty"`
	Name        string `json:"name,omitempty"        yaml:"name,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Link        string `json:"link,omitempty"        yaml:"link,omitempty"`
	CoverPhoto  string `json:"cover_photo,omitempty" yaml:"cover_photo,omitempty"`
	Count       int64  `json:"count,omitempty"       yaml:"count,omitempty"`
	Type        string `json:"type,omitempty"        yaml:"type,omitempty"`
	CanUpload   bool   `json:"can_upload,omitempty"  yaml:"can_upload,omitempty"`
	CreatedTime Time   `json:"created_time"          yaml:"created_time"`
}

// PostCreateRequest represents a request to publish a post to a feed.
type PostCreateRequest struct {
	Message     string   `json:"message,omitempty"     yaml:"message,omitempty"`     // Post body text
	Link        string   `json:"link,omitempty"        yaml:"link,omitempty"`        // URL attached to the post
	Name        string   `json:"name,omitempty"        yaml:"name,omitempty"`        // Link title
	Caption     string   `json:"caption,omitempty"     yaml:"caption,omitempty"`     // Link caption shown under the title
	Description string   `json:"description,omitempty" yaml:"description,omitempty"` // Link description
	Picture     string   `json:"picture,omitempty"     yaml:"picture,omitempty"`     // Preview image URL for the link
	Place       string   `json:"place,omitempty"       yaml:"place,omitempty"`       // Page ID of a location to tag
	Tags        []string `json:"tags,omitempty"        yaml:"tags,omitempty"`        // User IDs tagged in the post
	Published   *bool    `json:"published,omitempty"   yaml:"published,omitempty"`   // Set false to create an unpublished post
}

// PhotoUploadRequest represents a request to upload a photo.
type PhotoUploadRequest struct {
	Source      []byte `json:"-"                  yaml:"-"`                  // Image bytes
	Filename    string `json:"-"                  yaml:"-"`                  // Filename for the multipart part
	ContentType string `json:"-"                  yaml:"-"`                  // MIME type of the image bytes
	Message     string `json:"message,omitempty"  yaml:"message,omitempty"`  // Photo caption
	Album       string `json:"-"                  yaml:"-"`                  // Target album ID; empty means the profile album
	NoStory     bool   `json:"no_story,omitempty" yaml:"no_story,omitempty"` // Suppress the feed story for the upload
}

// CommentCreateRequest represents a request to comment on an object.
type CommentCreateRequest struct {
	Message string `json:"message" yaml:"message"` // Comment body text
}
