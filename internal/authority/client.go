package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jask/wordrack/internal/game"
)

// Client talks to the authority over JSON/HTTP.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewClient returns a client for baseURL. A zero timeout leaves deadlines to
// the caller's context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		timeout: timeout,
		http:    http.DefaultClient,
	}
}

type wireCell struct {
	Letter *string `json:"letra"`
	Bonus  *string `json:"bono"`
}

type wireState struct {
	Board         [][]wireCell `json:"tablero"`
	Rack          []string     `json:"atril"`
	UserScore     int          `json:"puntos_usuario"`
	OpponentScore int          `json:"puntos_cpu"`
	BagRemaining  int          `json:"bolsa_restante"`
}

type exchangeRequest struct {
	Letters []string `json:"fichas"`
}

func (c *Client) State(ctx context.Context) (game.Snapshot, error) {
	var w wireState
	if _, err := c.do(ctx, http.MethodGet, "/api/estado", nil, &w, false); err != nil {
		return game.Snapshot{}, err
	}
	return w.snapshot(), nil
}

// Play submits a word. A rejected word comes back as a PlayResult, not an
// error; the authority answers rejections with HTTP 400 and a JSON body.
func (c *Client) Play(ctx context.Context, req PlayRequest) (PlayResult, error) {
	var out PlayResult
	if _, err := c.do(ctx, http.MethodPost, "/api/jugada", req, &out, true); err != nil {
		return PlayResult{}, err
	}
	if out.Status == "" {
		return PlayResult{}, fmt.Errorf("%w: play: missing status", ErrTransport)
	}
	return out, nil
}

func (c *Client) Pass(ctx context.Context) (PassResult, error) {
	var out PassResult
	if _, err := c.do(ctx, http.MethodPost, "/api/pasar", struct{}{}, &out, false); err != nil {
		return PassResult{}, err
	}
	return out, nil
}

func (c *Client) OpponentTurn(ctx context.Context) (OpponentMove, error) {
	var out OpponentMove
	if _, err := c.do(ctx, http.MethodPost, "/api/ia_juega", struct{}{}, &out, false); err != nil {
		return OpponentMove{}, err
	}
	return out, nil
}

func (c *Client) Exchange(ctx context.Context, letters []string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/cambiar_fichas", exchangeRequest{Letters: letters}, nil, false)
	return err
}

func (c *Client) Restart(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/reiniciar", struct{}{}, nil, false)
	return err
}

// do performs one request. When decodeErrors is set, 4xx bodies are decoded
// into out as well; otherwise any status >= 400 is a transport failure.
func (c *Client) do(ctx context.Context, method, path string, in, out any, decodeErrors bool) (int, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode %s: %w", path, err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || (resp.StatusCode >= 400 && !decodeErrors) {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return resp.StatusCode, fmt.Errorf("%w: %s %s: http %d: %s", ErrTransport, method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %s %s: decode: %v", ErrTransport, method, path, err)
	}
	return resp.StatusCode, nil
}

func (w wireState) snapshot() game.Snapshot {
	board := make([][]game.Cell, len(w.Board))
	for r, row := range w.Board {
		board[r] = make([]game.Cell, len(row))
		for c, cell := range row {
			if cell.Letter != nil {
				board[r][c].Letter = *cell.Letter
			}
			if cell.Bonus != nil {
				board[r][c].Bonus = game.Bonus(*cell.Bonus)
			}
		}
	}
	rack := make([]string, len(w.Rack))
	copy(rack, w.Rack)
	return game.Snapshot{
		Board:         board,
		Rack:          rack,
		UserScore:     w.UserScore,
		OpponentScore: w.OpponentScore,
		BagRemaining:  w.BagRemaining,
	}
}
