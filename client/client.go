package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/a-h/jsonapi"
	"github.com/a-h/qadocs/models"
)

func New(baseURL, apiKey string) Client {
	return Client{
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type Client struct {
	baseURL string
	apiKey  string
}

func (c Client) Account(ctx context.Context) (account models.Account, err error) {
	url, err := jsonapi.URL(c.baseURL).Path("account").String()
	if err != nil {
		return account, err
	}
	return get[models.Account](ctx, url, c.apiKey)
}

// QADocuments returns the QA document operations of a single container.
func (c Client) QADocuments(kind models.ContainerKind, containerID string) QADocuments {
	return QADocuments{
		client:      c,
		kind:        kind,
		containerID: containerID,
	}
}

type QADocuments struct {
	client      Client
	kind        models.ContainerKind
	containerID string
}

func (d QADocuments) Kind() models.ContainerKind { return d.kind }

func (d QADocuments) ContainerID() string { return d.containerID }

func (d QADocuments) url(segments ...string) *jsonapi.URLBuilder {
	return jsonapi.URL(d.client.baseURL).Path(string(d.kind), d.containerID, "qa_documents").Path(segments...)
}

func (d QADocuments) List(ctx context.Context, params models.ListParams) (page models.QADocumentPage, err error) {
	q := map[string]string{
		"keyword": params.Keyword,
	}
	if params.Page > 0 {
		q["page"] = strconv.Itoa(params.Page)
	}
	if params.Limit > 0 {
		q["limit"] = strconv.Itoa(params.Limit)
	}
	if params.Sort != "" {
		q["sort"] = string(params.Sort)
	}
	u, err := d.url().Query(q).String()
	if err != nil {
		return page, err
	}
	return get[models.QADocumentPage](ctx, u, d.client.apiKey)
}

func (d QADocuments) Get(ctx context.Context, id string) (doc models.QADocument, err error) {
	u, err := d.url(id).String()
	if err != nil {
		return doc, err
	}
	return get[models.QADocument](ctx, u, d.client.apiKey)
}

func (d QADocuments) Create(ctx context.Context, upd models.QADocumentUpdator) (resp models.QADocumentResponse, err error) {
	u, err := d.url().String()
	if err != nil {
		return resp, err
	}
	return jsonapi.Post[models.QADocumentUpdator, models.QADocumentResponse](ctx, u, upd, jsonapi.WithRequestHeader("Authorization", d.client.apiKey))
}

func (d QADocuments) Update(ctx context.Context, id string, upd models.QADocumentUpdator) (resp models.QADocumentResponse, err error) {
	u, err := d.url(id).String()
	if err != nil {
		return resp, err
	}
	return jsonapi.Put[models.QADocumentUpdator, models.QADocumentResponse](ctx, u, upd, jsonapi.WithRequestHeader("Authorization", d.client.apiKey))
}

func (d QADocuments) Delete(ctx context.Context, id string) (err error) {
	u, err := d.url(id).String()
	if err != nil {
		return err
	}
	resp, err := d.client.delete(ctx, u)
	if err != nil {
		return err
	}
	if resp.Result != models.ResultSuccess {
		return fmt.Errorf("unexpected delete result %q", resp.Result)
	}
	return nil
}

func (d QADocuments) Match(ctx context.Context, req models.MatchPostRequest) (resp models.MatchPostResponse, err error) {
	u, err := d.url("match").String()
	if err != nil {
		return resp, err
	}
	return jsonapi.Post[models.MatchPostRequest, models.MatchPostResponse](ctx, u, req, jsonapi.WithRequestHeader("Authorization", d.client.apiKey))
}

// get treats a 404 as an error, since every resource the client reads is
// expected to exist.
func get[TResp any](ctx context.Context, url, apiKey string) (resp TResp, err error) {
	resp, ok, err := jsonapi.Get[TResp](ctx, url, jsonapi.WithRequestHeader("Authorization", apiKey))
	if err != nil {
		return resp, err
	}
	if !ok {
		return resp, jsonapi.InvalidStatusError{Status: http.StatusNotFound}
	}
	return resp, nil
}

// delete uses Raw, as jsonapi has no helper for DELETE.
func (c Client) delete(ctx context.Context, url string) (resp models.CommonResponse, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return resp, fmt.Errorf("failed to create request: %w", err)
	}
	res, err := jsonapi.Raw(req, jsonapi.WithRequestHeader("Authorization", c.apiKey))
	if err != nil {
		return resp, err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(res.Body)
		return resp, jsonapi.InvalidStatusError{
			Status: res.StatusCode,
			Body:   string(body),
		}
	}
	if err = json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return resp, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp, nil
}
