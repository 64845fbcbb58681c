// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package filter decides which scored candidates survive into the ranked output.
//
// Records from public or non-profit domains are always kept. Everything else
// is presumed commercial and kept only when its title or snippet mentions a
// corporate-responsibility term. Both the domain patterns and the vocabulary
// are supplied through Rules so they can be tuned without code changes.
package filter
