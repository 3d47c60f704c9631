package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var s3Client *s3.Client

func InitS3() {
	s3Region := os.Getenv("S3_REGION")
	if s3Region == "" {
		s3Region = os.Getenv("AWS_REGION") // fallback
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(s3Region))
	if err != nil {
		log.Fatalf("Unable to load AWS config for S3: %v", err)
	}

	s3Client = s3.NewFromConfig(cfg)
}

// UploadFoodPhoto stores the original photo behind an analysis so the user
// can review what was scanned. Accepts a "data:<mime>;base64,<data>" URL or
// bare base64 (assumed JPEG). Returns the photo URL and the raw base64
// payload for the vision call.
func UploadFoodPhoto(base64Data string, userID uint) (photoURL, rawBase64, contentType string, err error) {
	rawBase64 = base64Data
	contentType = "image/jpeg"
	ext := ".jpg"

	if strings.HasPrefix(base64Data, "data:") {
		parts := strings.Split(base64Data, ",")
		if len(parts) != 2 {
			return "", "", "", fmt.Errorf("invalid base64 image")
		}
		rawBase64 = parts[1]

		mediaType := strings.SplitN(parts[0], ":", 2)[1]    // "image/png;base64"
		contentType = strings.SplitN(mediaType, ";", 2)[0]  // "image/png"
		if sub := strings.SplitN(contentType, "/", 2); len(sub) == 2 {
			switch sub[1] {
			case "jpeg", "jpg":
				ext = ".jpg"
			default:
				ext = "." + sub[1]
			}
		}
	}

	imageData, err := base64.StdEncoding.DecodeString(rawBase64)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to decode image: %v", err)
	}

	key := fmt.Sprintf("food-photos/%d/%d%s", userID, time.Now().UnixNano(), ext)

	_, err = s3Client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(os.Getenv("S3_BUCKET")),
		Key:         aws.String(key),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", "", fmt.Errorf("failed to upload to S3: %v", err)
	}

	cfURL := os.Getenv("CLOUDFRONT_URL")
	return fmt.Sprintf("%s/%s", cfURL, key), rawBase64, contentType, nil
}
