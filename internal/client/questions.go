package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/sgp/sgp-backend/internal/examform"
	"github.com/sgp/sgp-backend/internal/model"
)

const questionsPath = "/api/v1/admin/questions"

// QuestionClient implements the form's QuestionLister over HTTP.
type QuestionClient struct {
	c *Client
}

// ListForDropdown fetches one page of the question drop-down.
func (q *QuestionClient) ListForDropdown(ctx context.Context, filter model.QuestionFilter, page model.PageRequest) (*model.Page[model.SelectItem], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page.Page))
	query.Set("size", strconv.Itoa(page.Size))
	if page.Sort != nil {
		query.Set("sort", page.Sort.String())
	}
	if filter.Description != "" {
		query.Set("description", filter.Description)
	}
	if filter.Subject != "" {
		query.Set("subject", filter.Subject)
	}
	if filter.Difficulty != "" {
		query.Set("difficulty", string(filter.Difficulty))
	}

	var out model.Page[model.SelectItem]
	pagination, err := q.c.getJSON(ctx, questionsPath+"/dropdown", query, &out)
	if err != nil {
		return nil, err
	}
	if out.Content == nil {
		out.Content = []model.SelectItem{}
	}
	if pagination != nil {
		out.TotalElements = pagination.TotalItems
	}
	return &out, nil
}

// Create registers a question.
func (q *QuestionClient) Create(ctx context.Context, req model.CreateQuestionRequest) (*model.Question, error) {
	var out model.Question
	if err := q.c.post(ctx, questionsPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

var _ examform.QuestionLister = (*QuestionClient)(nil)
