/*
 * Copyright (c) 2019 OysterPack, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package ndc implements a nested diagnostic context carried by a context.Context.
//
// Related log statements are tagged with a shared context by pushing messages onto the stack. The stack is immutable:
// Push and Pop return a derived context, leaving the parent context untouched. This makes it safe to share a context
// across goroutines.
package ndc

import (
	"context"
	"strings"
)

type key struct{}

// stack is an immutable linked list - the top of the stack is the head
type stack struct {
	msg    string
	parent *stack
	depth  int
}

func from(ctx context.Context) *stack {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(key{}).(*stack)
	return s
}

// Push returns a derived context with the message pushed onto the stack
func Push(ctx context.Context, msg string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	parent := from(ctx)
	depth := 1
	if parent != nil {
		depth = parent.depth + 1
	}
	return context.WithValue(ctx, key{}, &stack{msg: msg, parent: parent, depth: depth})
}

// Pop returns a derived context with the top message removed, along with the removed message.
// If the stack is empty, then the context is returned as is along with an empty message.
func Pop(ctx context.Context) (context.Context, string) {
	s := from(ctx)
	if s == nil {
		return ctx, ""
	}
	return context.WithValue(ctx, key{}, s.parent), s.msg
}

// Peek returns the top message, or an empty string if the stack is empty
func Peek(ctx context.Context) string {
	if s := from(ctx); s != nil {
		return s.msg
	}
	return ""
}

// Depth returns the number of messages on the stack
func Depth(ctx context.Context) int {
	if s := from(ctx); s != nil {
		return s.depth
	}
	return 0
}

// Clear returns a derived context with an empty stack
func Clear(ctx context.Context) context.Context {
	if from(ctx) == nil {
		return ctx
	}
	return context.WithValue(ctx, key{}, (*stack)(nil))
}

// Get renders the stack, from the bottom to the top, joining the messages with a single space.
// An empty string is returned if the stack is empty.
func Get(ctx context.Context) string {
	s := from(ctx)
	if s == nil {
		return ""
	}
	msgs := make([]string, s.depth)
	for i := s.depth - 1; s != nil; i, s = i-1, s.parent {
		msgs[i] = s.msg
	}
	return strings.Join(msgs, " ")
}
