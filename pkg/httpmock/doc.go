// Package httpmock answers outgoing HTTP calls made by code under test with
// canned responses.
//
// Tests register request patterns on a Registry. Each pattern is built
// fluently and carries the responses it should return:
//
//	reg := httpmock.NewRegistry()
//	users := httpmock.NewRequest().
//		Method("GET").
//		URI("/users?page=1").
//		WillRespond(httpmock.NewResponse().JSON([]string{"alice"}))
//	reg.Add(users)
//
//	client := reg.Client()
//	resp, err := client.Get("https://api.example.com/users?page=1")
//
//	users.CallStack().AssertCalledTimes(t, 1)
//
// Every request goes to exactly one pattern: the one declaring the most
// constraints the request satisfies, the earliest registered on a tie. A
// pattern with no constraints acts as a fallback. When no pattern qualifies
// the registry returns a *NoMatchError listing the registered patterns and
// the closest candidates.
//
// Response bodies read from files and JSON payloads are only materialised
// when a request matches.
//
// A Registry is meant for a single test. Build a fresh one per test.
package httpmock
