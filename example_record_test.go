package mbaas_test

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mbaas/mbaas.go"
	"github.com/mbaas/mbaas.go/internal/mock"
	"github.com/mbaas/mbaas.go/pkg/models"
)

func ExampleClient_Save() {
	transport := mock.Create().
		Reply(http.StatusCreated, map[string]any{"objectId": "abc", "createDate": "1986-02-04T12:34:56.789Z"}).
		Reply(http.StatusOK, map[string]any{"updateDate": "1986-02-05T00:00:00.000Z"})

	client, err := mbaas.New(mbaas.Options{Transport: transport})
	if err != nil {
		panic(err)
	}

	r := mbaas.NewRecord("TestClass")
	r.Set("field1", models.String("value1"))
	if err := client.Save(context.Background(), r); err != nil {
		panic(err)
	}
	fmt.Println(transport.Last().Method, transport.Last().Path, transport.Last().Body)
	fmt.Println("objectId:", r.ObjectID())

	r.Remove("field1")
	if err := client.Save(context.Background(), r); err != nil {
		panic(err)
	}
	fmt.Println(transport.Last().Method, transport.Last().Path, transport.Last().Body)

	// Output:
	// POST classes/TestClass map[field1:value1]
	// objectId: abc
	// PUT classes/TestClass/abc map[field1:<nil>]
}

func ExampleQuery_Params() {
	q := mbaas.NewQuery("TestClass").
		WhereGreaterThan("score", models.Int(10)).
		WhereLessThan("score", models.Int(20)).
		OrderByDescending("score").
		Limit(5)

	params, err := q.Params()
	if err != nil {
		panic(err)
	}
	fmt.Println(params["where"])
	fmt.Println(params["order"], params["limit"])

	// Output:
	// {"score":{"$gt":10,"$lt":20}}
	// -score 5
}
