package file

type (
	CreateBucketRequest struct {
		BucketName string `json:"bucket_name" validate:"required,bucket"`
		Public     bool   `json:"public"`
	}
	RenameRequest struct {
		FileName string `json:"file_name" validate:"required,max=255"`
	}
	GrantAccessRequest struct {
		TargetUserID string `json:"target_user_id" validate:"required,max=255"`
		AccessLevel  string `json:"access_level" validate:"required,level"`
	}
)
