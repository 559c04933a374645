package main

import (
	"net/http"

	"github.com/gazebo-web/gz-go/v7"
	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	"github.com/nekosafe-web/plant-server/globals"
	"github.com/nekosafe-web/plant-server/news"
)

// NewsList proxies the list of published articles from the hosted CMS,
// newest first. The returned value will be of type "news.Articles".
// You can request this method with the following curl request:
//   curl -k -X GET --url https://localhost:4430/1.0/news
func NewsList(tx *gorm.DB, w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	if globals.News == nil {
		return nil, gz.NewErrorMessage(gz.ErrorNonExistentResource)
	}

	// Prepare pagination
	pr, em := gz.NewPaginationRequest(r)
	if em != nil {
		return nil, em
	}

	page, perPage := int(gz.Max(pr.Page, 1)), int(pr.PerPage)
	if perPage <= 0 {
		perPage = 20
	}

	articles, err := globals.News.List(r.Context(), page, perPage)
	if err != nil {
		gz.LoggerFromRequest(r).Error("Error fetching news from CMS:", err)
		return nil, gz.NewErrorMessageWithBase(gz.ErrorUnexpected, err)
	}

	pagination := gz.PaginationResult{
		Page:       pr.Page,
		PerPage:    pr.PerPage,
		URL:        pr.URL,
		QueryCount: int64(articles.Total),
		PageFound:  true,
	}
	if err := gz.WritePaginationHeaders(pagination, w, r); err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorUnexpected, err)
	}

	return articles, nil
}

// NewsIndex proxies a single article, with its body blocks, from the hosted
// CMS. The returned value will be of type "news.Article".
// You can request this method with the following curl request:
//   curl -k -X GET --url https://localhost:4430/1.0/news/{article_id}
func NewsIndex(tx *gorm.DB, w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	if globals.News == nil {
		return nil, gz.NewErrorMessage(gz.ErrorNonExistentResource)
	}

	articleID, valid := mux.Vars(r)["article_id"]
	if !valid {
		return nil, gz.NewErrorMessage(gz.ErrorIDNotInRequest)
	}

	article, err := globals.News.Get(r.Context(), articleID)
	if err != nil {
		if err == news.ErrArticleNotFound {
			return nil, gz.NewErrorMessage(gz.ErrorNameNotFound)
		}
		gz.LoggerFromRequest(r).Error("Error fetching article from CMS:", err)
		return nil, gz.NewErrorMessageWithBase(gz.ErrorUnexpected, err)
	}

	return article, nil
}
