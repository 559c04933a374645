package main

import (
	"io"
	"net/http"

	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
	"github.com/nekosafe-web/plant-server/globals"
)

// VisionIdentify identifies the plant on an uploaded photo with the
// configured vision provider. The returned value is a ranked list of
// "vision.Candidate".
// You can request this method with the following curl request:
//   curl -k -X POST -F "file=@<full-path-to-file>"
//     --url https://localhost:4430/1.0/vision/identify
func VisionIdentify(tx *gorm.DB, w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	if globals.Vision == nil {
		return nil, gz.NewErrorMessage(gz.ErrorNonExistentResource)
	}

	image, em := getRequestImage(r)
	if em != nil {
		return nil, em
	}
	if image == nil {
		return nil, gz.NewErrorMessage(gz.ErrorFormMissingFiles)
	}

	data, err := io.ReadAll(image.Body)
	if err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorForm, err)
	}
	mimeType := http.DetectContentType(data)

	candidates, err := globals.Vision.Identify(r.Context(), data, mimeType)
	if err != nil {
		gz.LoggerFromRequest(r).Error("Error identifying plant:", err)
		return nil, gz.NewErrorMessageWithBase(gz.ErrorUnexpected, err)
	}

	return candidates, nil
}
