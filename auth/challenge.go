// Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Challenge is an additional verification step requested by the identity
// provider before it will issue tokens, such as an email or TOTP code.
type Challenge struct {
	// Name is the provider's challenge identifier, for example "email_otp".
	Name string
	// Session is the opaque continuation handle that ties the answer back to
	// the interrupted token exchange.
	Session string
	// Prompt is a human-readable description of what is being asked for.
	Prompt string
}

// ChallengeHandler supplies the answer to an MFA challenge. Returning an
// empty answer or an error aborts the authentication flow.
type ChallengeHandler interface {
	Resolve(ctx context.Context, challenge Challenge) (string, error)
}

// PromptChallengeHandler resolves challenges interactively by printing the
// prompt and reading one line from the input stream.
type PromptChallengeHandler struct {
	In  io.Reader
	Out io.Writer

	mu     sync.Mutex
	reader *bufio.Reader
}

// NewPromptChallengeHandler returns a handler wired to stdin and stderr.
func NewPromptChallengeHandler() *PromptChallengeHandler {
	return &PromptChallengeHandler{In: os.Stdin, Out: os.Stderr}
}

func (h *PromptChallengeHandler) Resolve(ctx context.Context, challenge Challenge) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.reader == nil {
		h.reader = bufio.NewReader(h.In)
	}
	fmt.Fprintf(h.Out, "%s: ", challenge.Prompt)

	type readResult struct {
		answer string
		err    error
	}
	resultChan := make(chan readResult, 1)
	go func() {
		line, err := h.reader.ReadString('\n')
		if err != nil && line == "" {
			resultChan <- readResult{err: err}
			return
		}
		resultChan <- readResult{answer: strings.TrimSpace(line)}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("failed to read challenge answer: %w", ctx.Err())
	case result := <-resultChan:
		if result.err != nil {
			return "", fmt.Errorf("%w: %s", ErrChallengeAborted, result.err)
		}
		if result.answer == "" {
			return "", ErrChallengeAborted
		}
		return result.answer, nil
	}
}

// StaticChallengeHandler resolves challenges from pre-seeded answers, keyed
// by challenge name. It suits non-interactive deployments where the second
// factor is provisioned out of band.
type StaticChallengeHandler struct {
	Answers map[string]string
}

func (h *StaticChallengeHandler) Resolve(_ context.Context, challenge Challenge) (string, error) {
	answer, ok := h.Answers[challenge.Name]
	if !ok || answer == "" {
		return "", fmt.Errorf("no answer configured for challenge %q: %w", challenge.Name, ErrChallengeAborted)
	}
	return answer, nil
}
