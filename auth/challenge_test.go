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
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emailChallenge() Challenge {
	return Challenge{Name: "email_otp", Session: "sess-42", Prompt: "Enter the email_otp code"}
}

func TestStaticChallengeHandlerResolvesConfiguredAnswer(t *testing.T) {
	handler := &StaticChallengeHandler{Answers: map[string]string{"email_otp": "123456"}}

	answer, err := handler.Resolve(context.Background(), emailChallenge())

	require.NoError(t, err)
	assert.Equal(t, "123456", answer)
}

func TestStaticChallengeHandlerAbortsOnMissingAnswer(t *testing.T) {
	handler := &StaticChallengeHandler{}

	_, err := handler.Resolve(context.Background(), emailChallenge())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrChallengeAborted)
}

func TestPromptChallengeHandlerReadsOneLine(t *testing.T) {
	out := &bytes.Buffer{}
	handler := &PromptChallengeHandler{In: strings.NewReader("  123456\n654321\n"), Out: out}

	answer, err := handler.Resolve(context.Background(), emailChallenge())
	require.NoError(t, err)
	assert.Equal(t, "123456", answer)
	assert.Contains(t, out.String(), "Enter the email_otp code")

	// A second challenge reads the next line, not a stale one.
	answer, err = handler.Resolve(context.Background(), emailChallenge())
	require.NoError(t, err)
	assert.Equal(t, "654321", answer)
}

func TestPromptChallengeHandlerAbortsOnEmptyLine(t *testing.T) {
	handler := &PromptChallengeHandler{In: strings.NewReader("\n"), Out: io.Discard}

	_, err := handler.Resolve(context.Background(), emailChallenge())

	assert.ErrorIs(t, err, ErrChallengeAborted)
}

func TestPromptChallengeHandlerAbortsOnClosedInput(t *testing.T) {
	handler := &PromptChallengeHandler{In: strings.NewReader(""), Out: io.Discard}

	_, err := handler.Resolve(context.Background(), emailChallenge())

	assert.ErrorIs(t, err, ErrChallengeAborted)
}

func TestPromptChallengeHandlerHonorsContext(t *testing.T) {
	reader, writer := io.Pipe()
	t.Cleanup(func() {
		writer.Close()
		reader.Close()
	})
	handler := &PromptChallengeHandler{In: reader, Out: io.Discard}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := handler.Resolve(ctx, emailChallenge())

	assert.ErrorIs(t, err, context.Canceled)
}
