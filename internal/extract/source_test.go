//go:build cgo

package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"apicompat/internal/surface"
)

const clientSource = `using System;

namespace Contoso
{
    public class Client
    {
        public const int MaxRetries = 3;

        private string secret;

        public string Endpoint { get; set; }

        public event EventHandler Closed;

        public void Connect(string host, int port = 80)
        {
        }

        protected void Reset()
        {
        }

        internal void Purge()
        {
        }

        [Experimental]
        public void Stream(string channel)
        {
        }
    }

    class Helper
    {
        public void Assist()
        {
        }
    }
}
`

func extractFixture(t *testing.T) *surface.Surface {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Client.cs"), []byte(clientSource), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Extract(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	return s
}

func TestSourceExtractObservableMembers(t *testing.T) {
	s := extractFixture(t)
	idx := s.Index()

	for _, key := range []string{
		"Contoso.Client/type",
		"Contoso.Client.Connect(string, int)/method",
		"Contoso.Client.Reset()/method",
		"Contoso.Client.Endpoint/property",
		"Contoso.Client.MaxRetries/field",
		"Contoso.Client.Closed/event",
		"Contoso.Client.Stream(string)/method",
	} {
		if _, ok := idx[key]; !ok {
			t.Errorf("missing member %s", key)
		}
	}
}

func TestSourceExtractSkipsUnobservable(t *testing.T) {
	s := extractFixture(t)

	for _, m := range s.Members {
		switch m.Name {
		case "secret":
			t.Error("private fields are not part of the surface")
		case "Purge":
			t.Error("internal methods are not part of the surface")
		case "Helper", "Assist":
			t.Error("members of internal types are not part of the surface")
		}
	}
}

func TestSourceExtractDetails(t *testing.T) {
	s := extractFixture(t)
	idx := s.Index()

	connect := idx["Contoso.Client.Connect(string, int)/method"]
	if connect == nil {
		t.Fatal("Connect not extracted")
	}
	if len(connect.Parameters) != 2 {
		t.Fatalf("parameters = %d", len(connect.Parameters))
	}
	if !connect.Parameters[1].HasDefault || connect.Parameters[1].Default != "80" {
		t.Errorf("port parameter = %+v", connect.Parameters[1])
	}
	if connect.ReturnType != "void" {
		t.Errorf("ReturnType = %q", connect.ReturnType)
	}

	reset := idx["Contoso.Client.Reset()/method"]
	if reset.Accessibility != surface.AccessProtected {
		t.Errorf("Reset accessibility = %s", reset.Accessibility)
	}

	retries := idx["Contoso.Client.MaxRetries/field"]
	if !retries.IsConst || retries.ConstValue != "3" {
		t.Errorf("MaxRetries = %+v", retries)
	}

	stream := idx["Contoso.Client.Stream(string)/method"]
	if !stream.Experimental {
		t.Error("attribute-marked member should be experimental")
	}
}
